package sanitizer

import (
	"regexp"
	"sort"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

type Strategy func(string) string

type Pipeline []Strategy

func (p Pipeline) Apply(s string) string {
	for _, fn := range p {
		s = fn(s)
	}
	return s
}

var (
	reKeepLettersDigits = regexp.MustCompile(`[^0-9\p{L}]+`)
	reTrimUnderscores   = regexp.MustCompile(`_+`)
	reLooksLikePhone    = regexp.MustCompile(`^[+(]?[0-9][0-9 ()\-.]{5,}$`)

	phoneKeys = map[string]struct{}{
		"phone":        {},
		"phone_number": {},
		"mobile":       {},
		"contact":      {},
	}
)

func trimAndLower(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func collapseUnderscores(s string) string {
	s = reTrimUnderscores.ReplaceAllString(s, "_")
	return strings.Trim(s, "_")
}

// NormalizeKey turns a free-form label such as "Phone Number" into
// "phone_number".
func NormalizeKey(input string) string {
	p := Pipeline{
		trimAndLower,
		func(s string) string { return reKeepLettersDigits.ReplaceAllString(s, "_") },
		collapseUnderscores,
	}
	return p.Apply(input)
}

// NormalizePhone formats a number as E.164, trying each region in order for
// numbers written in local form. Input that does not parse as a valid number
// is returned trimmed.
func NormalizePhone(phone string, regions ...string) string {
	phone = strings.TrimSpace(phone)
	if phone == "" || !reLooksLikePhone.MatchString(phone) {
		return phone
	}

	for _, region := range regions {
		parsed, err := phonenumbers.Parse(phone, region)
		if err != nil || !phonenumbers.IsValidNumber(parsed) {
			continue
		}
		return phonenumbers.Format(parsed, phonenumbers.E164)
	}
	return phone
}

// SubjectDetails normalizes keys and values of a subject's contact details.
// Keys that collapse onto the same normalized key keep the value of the
// lexically first original key. Keys that normalize to nothing are kept
// trimmed so validation can reject them.
func SubjectDetails(details map[string]string, regions ...string) map[string]string {
	if len(details) == 0 {
		return details
	}

	keys := make([]string, 0, len(details))
	for k := range details {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make(map[string]string, len(details))
	for _, k := range keys {
		key := NormalizeKey(k)
		if key == "" {
			key = strings.TrimSpace(k)
		}
		if _, ok := out[key]; ok {
			continue
		}

		value := TrimAndNormalize(details[k])
		if _, ok := phoneKeys[key]; ok {
			value = NormalizePhone(value, regions...)
		}
		out[key] = value
	}
	return out
}
