package prompts

import (
	"encoding/json"
	"fmt"
	"regexp"
	"time"
)

// Reserved variables computed at render time.
const (
	// VarTodayID renders as the compact numeric date, e.g. 20260824. It is
	// used to stamp generated identifiers.
	VarTodayID = "today_id"
	// VarTodayDate renders as the ISO date, e.g. 2026-08-24.
	VarTodayDate = "today_date"
)

// placeholderRe matches {{name}} and the special {{JSON.stringify(name)}}
// form, with optional surrounding whitespace.
var placeholderRe = regexp.MustCompile(`\{\{\s*(?:JSON\.stringify\(\s*([A-Za-z0-9_]+)\s*\)|([A-Za-z0-9_]+))\s*\}\}`)

// TodayID returns the compact numeric date used as the id prefix.
func TodayID(now time.Time) string { return now.Format("20060102") }

// Render fills the template's {{name}} placeholders from vars. The
// {{JSON.stringify(name)}} form serializes the variable as pretty-printed
// JSON. Unknown variables are left as literal placeholders in the output,
// not an error: callers rely on partial rendering during validation.
func Render(template string, vars map[string]any) string {
	return RenderAt(template, vars, time.Now())
}

// RenderAt is Render with an explicit clock, for deterministic tests.
func RenderAt(template string, vars map[string]any, now time.Time) string {
	return placeholderRe.ReplaceAllStringFunc(template, func(match string) string {
		groups := placeholderRe.FindStringSubmatch(match)
		if jsonName := groups[1]; jsonName != "" {
			v, ok := vars[jsonName]
			if !ok {
				return match
			}
			b, err := json.MarshalIndent(v, "", "  ")
			if err != nil {
				return match
			}
			return string(b)
		}
		name := groups[2]
		switch name {
		case VarTodayID:
			return TodayID(now)
		case VarTodayDate:
			return now.Format("2006-01-02")
		}
		v, ok := vars[name]
		if !ok {
			return match
		}
		if s, isString := v.(string); isString {
			return s
		}
		return fmt.Sprintf("%v", v)
	})
}
