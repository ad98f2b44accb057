package shared

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"strings"
)

// StringList is a list of strings stored as a JSON array column
type StringList []string

// Value implements driver.Valuer interface for GORM to store as JSON
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner interface for GORM to read from JSON
func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = StringList{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan StringList: unsupported type")
	}

	if len(bytes) == 0 {
		*l = StringList{}
		return nil
	}
	return json.Unmarshal(bytes, l)
}

// SEO holds search metadata embedded in catalog records
type SEO struct {
	SeoTitle       *string    `gorm:"type:varchar(255)" json:"seo_title" validate:"omitempty,max=255"`
	SeoDescription *string    `gorm:"type:text" json:"seo_description"`
	SeoKeywords    StringList `gorm:"type:text" json:"seo_keywords"`
}

// NewSEO builds SEO metadata, trimming blanks and dropping repeated keywords
func NewSEO(title, description *string, keywords []string) SEO {
	seo := SEO{SeoTitle: trimmed(title), SeoDescription: trimmed(description)}
	seen := make(map[string]struct{}, len(keywords))
	for _, k := range keywords {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		seo.SeoKeywords = append(seo.SeoKeywords, k)
	}
	return seo
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
