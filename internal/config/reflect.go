package config

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/imgajeed76/ivy/internal/input"
	"github.com/imgajeed76/ivy/internal/util"
	"github.com/sahilm/fuzzy"
)

// ConfigField represents metadata about a config field extracted from struct tags
type ConfigField struct {
	Key      string // e.g., "editor.page_size"
	Default  string // default value as string
	Desc     string // description for help text
	Min      int    // minimum value for int fields (0 = no limit)
	Max      int    // maximum value for int fields (0 = no limit)
	Type     string // "string", "int" or "bool"
	Category string // e.g., "editor", "theme"
}

// fieldCache caches parsed config fields to avoid repeated reflection
var fieldCache []ConfigField

// configFields extracts all settable fields from Config using reflection
func configFields() []ConfigField {
	if fieldCache != nil {
		return fieldCache
	}

	var fields []ConfigField
	cfg := &Config{}
	extractFields(reflect.TypeOf(cfg).Elem(), &fields)

	sort.Slice(fields, func(i, j int) bool {
		return fields[i].Key < fields[j].Key
	})

	fieldCache = fields
	return fields
}

// extractFields recursively extracts config fields from a struct
func extractFields(t reflect.Type, fields *[]ConfigField) {
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		// Maps (remotes, key bindings) have their own commands
		if field.Type.Kind() == reflect.Map {
			continue
		}

		configKey := field.Tag.Get("config")
		if configKey == "" {
			if field.Type.Kind() == reflect.Struct && field.Tag.Get("toml") != "" {
				extractFields(field.Type, fields)
			}
			continue
		}

		cf := ConfigField{
			Key:      configKey,
			Default:  field.Tag.Get("default"),
			Desc:     field.Tag.Get("desc"),
			Category: strings.Split(configKey, ".")[0],
		}
		if minStr := field.Tag.Get("min"); minStr != "" {
			cf.Min, _ = strconv.Atoi(minStr)
		}
		if maxStr := field.Tag.Get("max"); maxStr != "" {
			cf.Max, _ = strconv.Atoi(maxStr)
		}

		switch field.Type.Kind() {
		case reflect.Int:
			cf.Type = "int"
		case reflect.Bool:
			cf.Type = "bool"
		case reflect.String:
			cf.Type = "string"
		}

		*fields = append(*fields, cf)
	}
}

// findField finds a config field by key
func findField(key string) *ConfigField {
	key = normalizeKey(key)
	for _, f := range configFields() {
		if f.Key == key {
			return &f
		}
	}
	return nil
}

// normalizeKey handles key aliases
func normalizeKey(key string) string {
	aliases := map[string]string{
		"editor.pagesize":        "editor.page_size",
		"editor.undo":            "editor.undo_levels",
		"editor.autosave":        "editor.autosave_seconds",
		"sheet.readonly_columns": "sheet.read_only_columns",
		"theme.read_only_color":  "theme.readonly_color",
	}
	key = strings.ToLower(key)
	if normalized, ok := aliases[key]; ok {
		return normalized
	}
	return key
}

// SuggestKeys returns up to three known keys close to key.
func SuggestKeys(key string) []string {
	keys := ListKeys()
	matches := fuzzy.Find(key, keys)
	if len(matches) > 3 {
		matches = matches[:3]
	}
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, keys[m.Index])
	}
	return out
}

// lookupField locates the struct field for key inside cfg
func lookupField(cfg *Config, key string) (reflect.Value, bool) {
	parts := strings.Split(key, ".")
	if len(parts) != 2 {
		return reflect.Value{}, false
	}

	v := reflect.ValueOf(cfg).Elem()
	t := v.Type()

	var nested reflect.Value
	for i := 0; i < t.NumField(); i++ {
		if t.Field(i).Tag.Get("toml") == parts[0] {
			nested = v.Field(i)
			break
		}
	}
	if !nested.IsValid() || nested.Kind() != reflect.Struct {
		return reflect.Value{}, false
	}

	nt := nested.Type()
	for i := 0; i < nt.NumField(); i++ {
		if nt.Field(i).Tag.Get("config") == key {
			return nested.Field(i), true
		}
	}
	return reflect.Value{}, false
}

// getFieldValue gets a field value from the config using reflection
func getFieldValue(cfg *Config, key string) (string, bool) {
	fv, ok := lookupField(cfg, normalizeKey(key))
	if !ok {
		return "", false
	}
	switch fv.Kind() {
	case reflect.String:
		return fv.String(), true
	case reflect.Int:
		return strconv.FormatInt(fv.Int(), 10), true
	case reflect.Bool:
		return strconv.FormatBool(fv.Bool()), true
	}
	return "", false
}

// setFieldValue sets a field value on the config using reflection
func setFieldValue(cfg *Config, key, value string) error {
	key = normalizeKey(key)

	field := findField(key)
	if field == nil {
		return util.UnknownConfigKeyError(key, SuggestKeys(key))
	}

	fv, ok := lookupField(cfg, key)
	if !ok {
		return fmt.Errorf("field not found: %s", key)
	}

	switch fv.Kind() {
	case reflect.String:
		fv.SetString(value)
		return nil

	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean value: %s", value)
		}
		fv.SetBool(b)
		return nil

	case reflect.Int:
		intVal, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer value: %s", value)
		}
		if intVal < field.Min {
			return fmt.Errorf("value %d is below minimum %d", intVal, field.Min)
		}
		if field.Max != 0 && intVal > field.Max {
			return fmt.Errorf("value %d exceeds maximum %d", intVal, field.Max)
		}
		fv.SetInt(int64(intVal))
		return nil
	}

	return fmt.Errorf("field not found: %s", key)
}

// IsKnownKey reports whether key names a settable config field
func IsKnownKey(key string) bool {
	return findField(key) != nil
}

// ListKeys returns all available config keys
func ListKeys() []string {
	fields := configFields()
	keys := make([]string, len(fields))
	for i, f := range fields {
		keys[i] = f.Key
	}
	return keys
}

// GetFieldsByCategory returns config fields grouped by category
func GetFieldsByCategory() map[string][]ConfigField {
	result := make(map[string][]ConfigField)
	for _, f := range configFields() {
		result[f.Category] = append(result[f.Category], f)
	}
	return result
}

// GenerateHelpText generates help text for config options
func GenerateHelpText() string {
	var sb strings.Builder

	byCategory := GetFieldsByCategory()

	categories := []struct {
		key   string
		title string
	}{
		{"editor", "Editor"},
		{"sheet", "Sheets"},
		{"theme", "Theme"},
		{"log", "Logging"},
	}

	for _, cat := range categories {
		fields, ok := byCategory[cat.key]
		if !ok || len(fields) == 0 {
			continue
		}

		sb.WriteString(fmt.Sprintf("  %s:\n", cat.title))
		for _, f := range fields {
			defaultStr := ""
			if f.Default != "" {
				defaultStr = fmt.Sprintf(" (default: %s)", f.Default)
			}
			sb.WriteString(fmt.Sprintf("    %-30s %s%s\n", f.Key, f.Desc, defaultStr))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("  Key bindings ([keys.navigate] / [keys.edit] in the config file):\n")
	sb.WriteString(fmt.Sprintf("    %s\n", strings.Join(input.OpNames(), ", ")))

	return sb.String()
}
