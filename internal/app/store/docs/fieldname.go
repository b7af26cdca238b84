// internal/app/store/docs/fieldname.go
package docs

import "strings"

// invalidFieldRunes are the characters the store refuses in field names.
// Legacy spreadsheet imports produced headers containing them; such fields
// can never be addressed for update or delete.
const invalidFieldRunes = "*~/[]"

// IsValidFieldName reports whether the store can address a field by this
// name. Empty names are invalid.
func IsValidFieldName(name string) bool {
	if name == "" {
		return false
	}
	return !strings.ContainsAny(name, invalidFieldRunes)
}
