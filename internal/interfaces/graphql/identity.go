package graphql

import (
	"context"

	"github.com/graphql-go/graphql"
	identityapp "github.com/storefront/backend/internal/application/identity"
	"github.com/storefront/backend/internal/application/mutation"
	"github.com/storefront/backend/internal/domain/identity"
)

func (b *builder) identity() {
	group := graphql.NewObject(graphql.ObjectConfig{
		Name: "Group",
		Fields: nodeFields(graphql.Fields{
			"name": field(graphql.NewNonNull(graphql.String), func(g *identity.Group) interface{} { return g.Name }),
		}),
	})
	user := graphql.NewObject(graphql.ObjectConfig{
		Name: "User",
		Fields: nodeFields(graphql.Fields{
			"mobile":    field(graphql.NewNonNull(graphql.String), func(u *identity.User) interface{} { return u.Mobile }),
			"code":      field(graphql.NewNonNull(graphql.String), func(u *identity.User) interface{} { return u.Code }),
			"email":     field(graphql.String, func(u *identity.User) interface{} { return str(u.Email) }),
			"name":      field(graphql.NewNonNull(graphql.String), func(u *identity.User) interface{} { return u.Name }),
			"country":   field(graphql.String, func(u *identity.User) interface{} { return str(u.CountryCode) }),
			"note":      field(graphql.String, func(u *identity.User) interface{} { return str(u.Note) }),
			"dob":       field(graphql.DateTime, func(u *identity.User) interface{} { return optTime(u.Dob) }),
			"facebook":  field(graphql.String, func(u *identity.User) interface{} { return str(u.Facebook) }),
			"instagram": field(graphql.String, func(u *identity.User) interface{} { return str(u.Instagram) }),
			"whatsapp":  field(graphql.String, func(u *identity.User) interface{} { return str(u.Whatsapp) }),
			"isActive":  field(graphql.NewNonNull(graphql.Boolean), func(u *identity.User) interface{} { return u.IsActive }),
			"lastLogin": field(graphql.DateTime, func(u *identity.User) interface{} { return optTime(u.LastLogin) }),
			"roles": field(nonNullList(graphql.String), func(u *identity.User) interface{} {
				roles := make([]string, 0, len(u.Roles))
				for _, t := range u.RoleTypes() {
					roles = append(roles, string(t))
				}
				return roles
			}),
			"groups": field(nonNullList(group), func(u *identity.User) interface{} { return ptrs(u.Groups) }),
		}),
	})
	b.userType = user
	admin := graphql.NewObject(graphql.ObjectConfig{
		Name: "Admin",
		Fields: softFields(graphql.Fields{
			"user":       field(user, func(a *identity.Admin) interface{} { return a.User }),
			"isSuper":    field(graphql.NewNonNull(graphql.Boolean), func(a *identity.Admin) interface{} { return a.IsSuper }),
			"dateJoined": field(graphql.NewNonNull(graphql.DateTime), func(a *identity.Admin) interface{} { return a.DateJoined }),
			"authType":   field(graphql.NewNonNull(graphql.String), func(a *identity.Admin) interface{} { return string(a.AuthType) }),
		}),
	})
	typeGroup := graphql.NewObject(graphql.ObjectConfig{
		Name: "UserTypeGroup",
		Fields: nodeFields(graphql.Fields{
			"userType": field(graphql.NewNonNull(graphql.String), func(g *identity.UserTypeGroup) interface{} { return string(g.UserType) }),
			"group":    field(group, func(g *identity.UserTypeGroup) interface{} { return g.Group }),
		}),
	})
	token := graphql.NewObject(graphql.ObjectConfig{
		Name:        "TokenPayload",
		Description: "Access and refresh tokens. Every field but errors is null when errors is not empty.",
		Fields: graphql.Fields{
			"user":             &graphql.Field{Type: user},
			"token":            &graphql.Field{Type: graphql.String},
			"refreshToken":     &graphql.Field{Type: graphql.String},
			"expiresAt":        &graphql.Field{Type: graphql.DateTime},
			"refreshExpiresAt": &graphql.Field{Type: graphql.DateTime},
			"verified":         &graphql.Field{Type: graphql.Boolean},
			"errors":           &graphql.Field{Type: nonNullList(b.errorType)},
		},
	})
	success := graphql.NewObject(graphql.ObjectConfig{
		Name: "SuccessPayload",
		Fields: graphql.Fields{
			"success": &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
			"errors":  &graphql.Field{Type: nonNullList(b.errorType)},
		},
	})

	userInput := inputObject("UserInput", graphql.InputObjectConfigFieldMap{
		"mobile":    {Type: graphql.NewNonNull(graphql.String)},
		"email":     {Type: graphql.String},
		"name":      {Type: graphql.String},
		"country":   {Type: graphql.String},
		"note":      {Type: graphql.String},
		"dob":       {Type: graphql.DateTime},
		"facebook":  {Type: graphql.String},
		"instagram": {Type: graphql.String},
		"whatsapp":  {Type: graphql.String},
		"password":  {Type: graphql.String},
		"groups":    {Type: idList, Description: "Permission groups mapped to the ADMIN role."},
	})
	adminInput := inputObject("AdminInput", graphql.InputObjectConfigFieldMap{
		"isSuper":    {Type: graphql.Boolean},
		"dateJoined": {Type: graphql.DateTime},
		"status":     {Type: graphql.String},
		"authType":   {Type: graphql.String},
	})
	typeGroupInput := inputObject("UserTypeGroupInput", graphql.InputObjectConfigFieldMap{
		"userType": {Type: graphql.String},
		"group":    {Type: graphql.ID},
	})
	userPayload := b.payload("User", "user", user)
	adminPayload := b.payload("Admin", "admin", admin)
	typeGroupPayload := b.payload("UserTypeGroup", "userTypeGroup", typeGroup)

	accounts, auth, groups := b.svc.Accounts, b.svc.Auth, b.svc.UserTypeGroups

	b.query["me"] = &graphql.Field{
		Type: user,
		Resolve: b.guard(authenticated(), func(p graphql.ResolveParams) (interface{}, error) {
			return viewerUser(p.Context), nil
		}),
	}
	b.query["users"] = &graphql.Field{
		Type:        graphql.NewNonNull(connection("Admin", admin)),
		Description: "Admins other than the viewer.",
		Args:        listArgs(nil),
		Resolve: b.guard(accountAdmin, func(p graphql.ResolveParams) (interface{}, error) {
			l := readList(p.Args)
			return pageResult(accounts.Users(p.Context, viewerUser(p.Context), identityapp.ListInput{
				Search: l.Search, Offset: l.Offset, Limit: l.Limit,
			}))
		}),
	}
	b.query["userTypeGroups"] = &graphql.Field{
		Type: graphql.NewNonNull(connection("UserTypeGroup", typeGroup)),
		Args: listArgs(graphql.FieldConfigArgument{"userType": {Type: graphql.String}}),
		Resolve: b.guard(groupManager, func(p graphql.ResolveParams) (interface{}, error) {
			l := readList(p.Args)
			return pageResult(groups.List(p.Context, argString(p.Args, "userType"), identityapp.ListInput{
				Search: l.Search, Offset: l.Offset, Limit: l.Limit,
			}))
		}),
	}
	b.query["userTypeGroup"] = lookupField(b, groupManager, typeGroup, groups.Get)

	b.mutation["adminCreate"] = &graphql.Field{
		Type: graphql.NewNonNull(userPayload),
		Args: graphql.FieldConfigArgument{
			"input": {Type: graphql.NewNonNull(userInput)},
			"admin": {Type: adminInput},
		},
		Resolve: b.guard(accountAdmin, func(p graphql.ResolveParams) (interface{}, error) {
			var in identityapp.AdminCreateInput
			if err := decode(p.Args["input"], &in.User); err != nil {
				return nil, err
			}
			if raw, ok := p.Args["admin"]; ok && raw != nil {
				if err := decode(raw, &in.Admin); err != nil {
					return nil, err
				}
			}
			u, errs, err := accounts.AdminCreate(p.Context, in)
			return payloadResult("user", u, errs, err)
		}),
	}
	b.mutation["createAdminToken"] = &graphql.Field{
		Type: graphql.NewNonNull(token),
		Args: graphql.FieldConfigArgument{
			"mobile":   {Type: graphql.NewNonNull(graphql.String)},
			"password": {Type: graphql.NewNonNull(graphql.String)},
		},
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			return tokenResult(auth.CreateAdminToken(p.Context, argString(p.Args, "mobile"), argString(p.Args, "password")))
		},
	}
	b.mutation["refreshToken"] = &graphql.Field{
		Type: graphql.NewNonNull(token),
		Args: graphql.FieldConfigArgument{
			"refreshToken": {Type: graphql.NewNonNull(graphql.String)},
		},
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			return tokenResult(auth.RefreshToken(p.Context, argString(p.Args, "refreshToken")))
		},
	}
	b.mutation["logout"] = &graphql.Field{
		Type: graphql.NewNonNull(success),
		Args: graphql.FieldConfigArgument{
			"refreshToken": {Type: graphql.String, Description: "Revoked together with the access token when given."},
		},
		Resolve: b.guard(authenticated(), func(p graphql.ResolveParams) (interface{}, error) {
			v, _ := identityapp.ViewerFrom(p.Context)
			if err := auth.Logout(p.Context, v.AccessToken, argString(p.Args, "refreshToken")); err != nil {
				return nil, err
			}
			return successResult(nil, nil)
		}),
	}
	b.mutation["sendOtp"] = &graphql.Field{
		Type: graphql.NewNonNull(success),
		Args: graphql.FieldConfigArgument{
			"user": {Type: graphql.NewNonNull(graphql.ID)},
		},
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			return successResult(accounts.SendOtp(p.Context, argString(p.Args, "user")))
		},
	}
	b.mutation["verifyOtp"] = &graphql.Field{
		Type: graphql.NewNonNull(success),
		Args: graphql.FieldConfigArgument{
			"user": {Type: graphql.NewNonNull(graphql.ID)},
			"otp":  {Type: graphql.NewNonNull(graphql.Int)},
		},
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			return successResult(accounts.VerifyOtp(p.Context, argString(p.Args, "user"), argInt(p.Args, "otp")))
		},
	}
	b.mutation["adminVerify"] = &graphql.Field{
		Type: graphql.NewNonNull(adminPayload),
		Args: graphql.FieldConfigArgument{
			"id":       {Type: graphql.NewNonNull(graphql.ID)},
			"otp":      {Type: graphql.NewNonNull(graphql.Int)},
			"password": {Type: graphql.NewNonNull(graphql.String)},
		},
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			a, errs, err := accounts.AdminVerify(p.Context, identityapp.AdminVerifyInput{
				User:     argString(p.Args, "id"),
				Otp:      argInt(p.Args, "otp"),
				Password: argString(p.Args, "password"),
			})
			return payloadResult("admin", a, errs, err)
		},
	}
	b.mutation["changeName"] = &graphql.Field{
		Type: graphql.NewNonNull(userPayload),
		Args: graphql.FieldConfigArgument{"name": {Type: graphql.NewNonNull(graphql.String)}},
		Resolve: b.guard(accountHolder, func(p graphql.ResolveParams) (interface{}, error) {
			u, errs, err := accounts.ChangeName(p.Context, viewerUser(p.Context), argString(p.Args, "name"))
			return payloadResult("user", u, errs, err)
		}),
	}
	b.mutation["changeEmail"] = &graphql.Field{
		Type: graphql.NewNonNull(userPayload),
		Args: graphql.FieldConfigArgument{"email": {Type: graphql.NewNonNull(graphql.String)}},
		Resolve: b.guard(accountHolder, func(p graphql.ResolveParams) (interface{}, error) {
			u, errs, err := accounts.ChangeEmail(p.Context, viewerUser(p.Context), argString(p.Args, "email"))
			return payloadResult("user", u, errs, err)
		}),
	}
	b.mutation["changePassword"] = &graphql.Field{
		Type: graphql.NewNonNull(userPayload),
		Args: graphql.FieldConfigArgument{
			"currentPassword": {Type: graphql.NewNonNull(graphql.String)},
			"newPassword":     {Type: graphql.NewNonNull(graphql.String)},
		},
		Resolve: b.guard(accountHolder, func(p graphql.ResolveParams) (interface{}, error) {
			u, errs, err := accounts.ChangePassword(p.Context, viewerUser(p.Context),
				argString(p.Args, "currentPassword"), argString(p.Args, "newPassword"))
			return payloadResult("user", u, errs, err)
		}),
	}
	b.mutation["adminStatusChange"] = statusField(b, accountAdmin, adminPayload, "admin", false,
		func(ctx context.Context, id, status string, _ *bool) (*identity.Admin, mutation.Errors, error) {
			return accounts.AdminStatusChange(ctx, id, status)
		})
	b.mutation["adminBulkDelete"] = b.bulkDeleteField(accountAdmin, accounts.AdminBulkDelete)

	b.mutation["userTypeGroupCreate"] = saveField(b, groupManager, typeGroupPayload, "userTypeGroup", typeGroupInput, false, groups.Save)
	b.mutation["userTypeGroupUpdate"] = saveField(b, groupManager, typeGroupPayload, "userTypeGroup", typeGroupInput, true, groups.Save)
	b.mutation["userTypeGroupDelete"] = byIDField(b, groupManager, typeGroupPayload, "userTypeGroup", groups.Delete)
}

func tokenResult(res *identityapp.TokenResult, errs mutation.Errors, err error) (interface{}, error) {
	if err != nil {
		return nil, err
	}
	if !errs.Empty() || res == nil {
		return map[string]interface{}{"errors": errorList(errs)}, nil
	}
	return map[string]interface{}{
		"user":             res.User,
		"token":            res.Token,
		"refreshToken":     res.RefreshToken,
		"expiresAt":        res.ExpiresAt,
		"refreshExpiresAt": res.RefreshExpiresAt,
		"verified":         res.Verified,
		"errors":           errorList(errs),
	}, nil
}

func successResult(errs mutation.Errors, err error) (interface{}, error) {
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"success": errs.Empty(), "errors": errorList(errs)}, nil
}
