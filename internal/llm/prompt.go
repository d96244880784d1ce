package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// MaxProfileChars bounds the profile text embedded in a prompt
const MaxProfileChars = 12000

const truncatedMarker = "\n...[truncated]..."

// BuildPrompt assembles the analyst instructions, the profile and the question
func BuildPrompt(question string, profile any) string {
	return strings.Join([]string{
		"You are a data analyst. Answer the user question using the CSV profile/summary below.",
		"Rules:",
		"- Be specific and grounded in the data profile.",
		"- If you can't know from the profile, say what info is missing.",
		"- Keep it concise (5-10 bullet points max unless asked otherwise).",
		"",
		"CSV PROFILE:",
		stringifyProfile(profile, MaxProfileChars),
		"",
		"USER QUESTION:",
		question,
	}, "\n")
}

// stringifyProfile renders the profile as indented JSON cut to max runes
func stringifyProfile(profile any, max int) string {
	var s string
	switch v := profile.(type) {
	case string:
		s = v
	default:
		b, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			s = fmt.Sprint(v)
		} else {
			s = string(b)
		}
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + truncatedMarker
}
