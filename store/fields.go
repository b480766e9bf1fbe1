package store

import (
	"bytes"
	"reflect"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func structValue(doc any) reflect.Value {
	v := reflect.ValueOf(doc)
	for v.Kind() == reflect.Pointer {
		v = v.Elem()
	}
	return v
}

// fieldValue resolves a stored field name (the bson tag) against a struct
// value. The memory store filters and sorts on the same field names the Mongo
// implementation sends over the wire, so both see identical queries.
func fieldValue(doc any, field string) (any, bool) {
	v := structValue(doc)
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		if bsonName(t.Field(i).Tag.Get("bson")) == field {
			return v.Field(i).Interface(), true
		}
	}
	return nil, false
}

// setFieldValue assigns value to the struct field tagged with the stored
// field name. doc must be a pointer.
func setFieldValue(doc any, field string, value any) bool {
	v := structValue(doc)
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		if bsonName(t.Field(i).Tag.Get("bson")) != field {
			continue
		}
		fv := v.Field(i)
		rv := reflect.ValueOf(value)
		switch {
		case rv.Type().AssignableTo(fv.Type()):
			fv.Set(rv)
		case rv.Type().ConvertibleTo(fv.Type()):
			fv.Set(rv.Convert(fv.Type()))
		default:
			return false
		}
		return true
	}
	return false
}

func bsonName(tag string) string {
	name, _, _ := strings.Cut(tag, ",")
	return name
}

// valuesEqual is the equality used by Filter matching.
func valuesEqual(a, b any) bool {
	switch x := a.(type) {
	case primitive.ObjectID:
		y, ok := b.(primitive.ObjectID)
		return ok && x == y
	case time.Time:
		y, ok := b.(time.Time)
		return ok && x.Equal(y)
	default:
		return a == b
	}
}

// compareValues orders two stored values of the same field. fold lowers
// strings before comparing.
func compareValues(a, b any, fold bool) int {
	switch x := a.(type) {
	case string:
		y, _ := b.(string)
		if fold {
			x, y = strings.ToLower(x), strings.ToLower(y)
		}
		return strings.Compare(x, y)
	case int:
		y, _ := b.(int)
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
		return 0
	case int64:
		y, _ := b.(int64)
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
		return 0
	case time.Time:
		y, _ := b.(time.Time)
		switch {
		case x.Before(y):
			return -1
		case x.After(y):
			return 1
		}
		return 0
	case primitive.ObjectID:
		y, _ := b.(primitive.ObjectID)
		return bytes.Compare(x[:], y[:])
	}
	return 0
}
