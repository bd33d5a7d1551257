// Package contact validates contact form submissions, shadow-blocks bots
// caught by the honeypot field, and forwards everything else to an
// external webhook.
package contact

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf16"

	"github.com/go-playground/validator/v10"
)

// HoneypotField is the JSON name of the hidden form field. Humans never
// fill it in.
const HoneypotField = "hp_field"

// Submission is the decoded, untrusted contact form body.
type Submission struct {
	FirstName string `json:"firstName" validate:"minlen=2,maxlen=50"`
	LastName  string `json:"lastName" validate:"minlen=2,maxlen=50"`
	Email     string `json:"email" validate:"mailbox"`
	Message   string `json:"message" validate:"minlen=10,maxlen=1000"`
	Honeypot  string `json:"hp_field" validate:"maxlen=0"`
}

// fieldOrder is the order issues are reported in.
var fieldOrder = []string{"firstName", "lastName", "email", "message", HoneypotField}

var minMessages = map[string]string{
	"firstName": "First name is too short",
	"lastName":  "Last name is too short",
	"message":   "Message must be at least 10 characters",
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterValidation("minlen", func(fl validator.FieldLevel) bool {
		n, err := strconv.Atoi(fl.Param())
		return err == nil && textLen(fl.Field().String()) >= n
	})
	v.RegisterValidation("maxlen", func(fl validator.FieldLevel) bool {
		n, err := strconv.Atoi(fl.Param())
		return err == nil && textLen(fl.Field().String()) <= n
	})
	v.RegisterValidation("mailbox", func(fl validator.FieldLevel) bool {
		return isMailbox(fl.Field().String())
	})
	return v
}

// textLen counts UTF-16 code units, the unit browsers use for form field
// lengths. Characters outside the BMP count as two.
func textLen(s string) int {
	return len(utf16.Encode([]rune(s)))
}

var reMailbox = regexp.MustCompile(`(?i)^[A-Z0-9_'+\-.]*[A-Z0-9_+-]@([A-Z0-9][A-Z0-9\-]*\.)+[A-Z]{2,}$`)

// isMailbox accepts plain dot-atom addresses with an alphabetic TLD of at
// least two letters. Quoted local parts and IP literals are rejected.
func isMailbox(s string) bool {
	if strings.HasPrefix(s, ".") || strings.Contains(s, "..") {
		return false
	}
	return reMailbox.MatchString(s)
}

// Issue is a single schema violation. Field is empty when the body as a
// whole is wrong.
type Issue struct {
	Field   string
	Message string
}

// Issues lists violations in field declaration order.
type Issues []Issue

func (is Issues) Error() string {
	parts := make([]string, len(is))
	for i, issue := range is {
		if issue.Field == "" {
			parts[i] = issue.Message
			continue
		}
		parts[i] = issue.Field + ": " + issue.Message
	}
	return strings.Join(parts, "; ")
}

// Has reports whether any issue concerns field.
func (is Issues) Has(field string) bool {
	for _, issue := range is {
		if issue.Field == field {
			return true
		}
	}
	return false
}

// Parse decodes body and checks it against the submission schema. All
// issues are collected; a non-empty Issues means the Submission must not
// be used.
func Parse(body []byte) (Submission, Issues) {
	var sub Submission
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return sub, Issues{{Message: "Required"}}
	}
	if !json.Valid(trimmed) {
		// Text that is not JSON is taken as a plain string body.
		return sub, Issues{{Message: "Expected object, received string"}}
	}
	var fields map[string]json.RawMessage
	if trimmed[0] != '{' || json.Unmarshal(trimmed, &fields) != nil {
		return sub, Issues{{Message: "Expected object, received " + jsonType(trimmed)}}
	}

	byField := make(map[string]Issue)
	values := map[string]*string{
		"firstName":   &sub.FirstName,
		"lastName":    &sub.LastName,
		"email":       &sub.Email,
		"message":     &sub.Message,
		HoneypotField: &sub.Honeypot,
	}
	for _, name := range fieldOrder {
		raw, ok := fields[name]
		if !ok {
			byField[name] = Issue{Field: name, Message: "Required"}
			continue
		}
		if typ := jsonType(raw); typ != "string" {
			byField[name] = Issue{Field: name, Message: "Expected string, received " + typ}
			continue
		}
		if err := json.Unmarshal(raw, values[name]); err != nil {
			byField[name] = Issue{Field: name, Message: "Expected string, received " + jsonType(raw)}
		}
	}

	if err := validate.Struct(sub); err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return sub, Issues{{Message: err.Error()}}
		}
		for _, fe := range verrs {
			if _, seen := byField[fe.Field()]; seen {
				continue
			}
			byField[fe.Field()] = Issue{Field: fe.Field(), Message: issueMessage(fe)}
		}
	}

	var issues Issues
	for _, name := range fieldOrder {
		if issue, ok := byField[name]; ok {
			issues = append(issues, issue)
		}
	}
	return sub, issues
}

func issueMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "minlen":
		if msg, ok := minMessages[fe.Field()]; ok {
			return msg
		}
		return fmt.Sprintf("String must contain at least %s character(s)", fe.Param())
	case "maxlen":
		if fe.Field() == HoneypotField {
			return "Bot detected"
		}
		return fmt.Sprintf("String must contain at most %s character(s)", fe.Param())
	case "mailbox":
		return "Invalid email address"
	}
	return "Invalid input"
}

// jsonType names the JSON type of a valid raw value.
func jsonType(raw []byte) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return "undefined"
	}
	switch raw[0] {
	case '{':
		return "object"
	case '[':
		return "array"
	case '"':
		return "string"
	case 't', 'f':
		return "boolean"
	case 'n':
		return "null"
	default:
		return "number"
	}
}

// Payload is what the webhook receives: the validated fields plus the
// shared secret. The honeypot never leaves the server.
type Payload struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Message   string `json:"message"`
	Secret    string `json:"secret"`
}

func (s Submission) payload(secret string) Payload {
	return Payload{
		FirstName: s.FirstName,
		LastName:  s.LastName,
		Email:     s.Email,
		Message:   s.Message,
		Secret:    secret,
	}
}
