package spoken

import "strings"

// Slot values cannot carry punctuation through the voice-assistant
// pipeline, so titles travel with placeholder tokens that Deformat
// turns back into the real characters.
var deformatReplacer = strings.NewReplacer(
	"__COLON__", ":",
	"__DOT__", ".",
	"__DASH__", "-",
	"__SPACE__", " ",
	"__APOSTROPHE__", "'",
	"__UNDERSCORE__", "_",
)

func Deformat(formattedTitle string) string {
	return deformatReplacer.Replace(formattedTitle)
}
