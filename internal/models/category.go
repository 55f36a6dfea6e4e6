package models

import (
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LocalizedName maps a language code to a display name. Legacy documents
// stored the name as a plain string; this type decodes both shapes so old
// categories keep loading.
type LocalizedName map[string]string

const defaultLanguage = "en"

// UnmarshalBSONValue accepts both string and embedded-document BSON types.
func (n *LocalizedName) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	switch t {
	case bsontype.Null:
		*n = nil
		return nil
	case bsontype.EmbeddedDocument:
		var values map[string]string
		if err := bson.UnmarshalValue(t, data, &values); err != nil {
			return err
		}
		*n = values
		return nil
	case bsontype.String:
		var value string
		if err := bson.UnmarshalValue(t, data, &value); err != nil {
			return err
		}

		trimmed := strings.TrimSpace(value)
		if trimmed == "" {
			*n = LocalizedName{}
			return nil
		}

		*n = LocalizedName{defaultLanguage: trimmed}
		return nil
	default:
		return fmt.Errorf("cannot decode %s into LocalizedName", t)
	}
}

// MarshalBSONValue always stores the name as a document, keeping new writes
// consistent even when legacy documents used a string value.
func (n LocalizedName) MarshalBSONValue() (bsontype.Type, []byte, error) {
	return bson.MarshalValue(map[string]string(n))
}

// Get returns the name for lang, falling back to the default language and
// then to any available entry.
func (n LocalizedName) Get(lang string) string {
	if v, ok := n[lang]; ok {
		return v
	}
	if v, ok := n[defaultLanguage]; ok {
		return v
	}
	for _, v := range n {
		return v
	}
	return ""
}

type Category struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      LocalizedName      `bson:"name" json:"name"`
	IsActive  bool               `bson:"isActive" json:"isActive"`
	SortOrder int                `bson:"sortOrder" json:"sortOrder"`
	Featured  bool               `bson:"featured,omitempty" json:"featured,omitempty"`
	SpecKeys  []string           `bson:"specKeys,omitempty" json:"specKeys,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
