// Package clone implements the generation request lifecycle for the
// voxclone client: input validation, the remote synthesis call, and the
// state machine that tracks a single in-flight generation.
package clone

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Language is a target synthesis language code understood by the remote
// XTTS model.
type Language string

// The closed set of languages the remote model accepts.
const (
	LangEnglish    Language = "en"
	LangRussian    Language = "ru"
	LangSpanish    Language = "es"
	LangFrench     Language = "fr"
	LangGerman     Language = "de"
	LangItalian    Language = "it"
	LangPortuguese Language = "pt"
	LangTurkish    Language = "tr"
	LangArabic     Language = "ar"
	LangChinese    Language = "zh-cn"
	LangJapanese   Language = "ja"
	LangKorean     Language = "ko"
)

// DefaultLanguage is used when the user never touches the selector.
const DefaultLanguage = LangEnglish

// Languages lists every supported language in display order.
var Languages = []Language{
	LangEnglish,
	LangRussian,
	LangSpanish,
	LangFrench,
	LangGerman,
	LangItalian,
	LangPortuguese,
	LangTurkish,
	LangArabic,
	LangChinese,
	LangJapanese,
	LangKorean,
}

// ParseLanguage validates a language code against the supported set.
func ParseLanguage(code string) (Language, error) {
	for _, l := range Languages {
		if string(l) == code {
			return l, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedLanguage, code)
}

// String returns the wire-level language code.
func (l Language) String() string {
	return string(l)
}

// DisplayName returns a human-readable English name for the language,
// falling back to the raw code for anything the display tables miss.
func (l Language) DisplayName() string {
	tag, err := language.Parse(string(l))
	if err != nil {
		return string(l)
	}
	if name := display.English.Tags().Name(tag); name != "" {
		return name
	}
	return string(l)
}

// ReferenceAudio is the user-selected voice sample: an opaque binary
// payload plus the display name it was picked under.
type ReferenceAudio struct {
	Name string
	Data []byte
}

// Input holds the user-provided script, language, and reference audio.
// It is owned by the UI layer; the controller only ever reads a snapshot.
type Input struct {
	Script    string
	Reference *ReferenceAudio
	Language  Language
}

// CanSubmit reports whether the input is complete enough to generate:
// a non-empty script and a present reference sample.
func (i Input) CanSubmit() bool {
	return i.Script != "" && i.Reference != nil
}

// Snapshot freezes the input into an immutable request so that UI edits
// made while a generation is in flight cannot leak into the remote call.
func (i Input) Snapshot() Request {
	req := Request{
		Script:   i.Script,
		Language: i.Language,
	}
	if req.Language == "" {
		req.Language = DefaultLanguage
	}
	if i.Reference != nil {
		req.ReferenceName = i.Reference.Name
		req.ReferenceData = append([]byte(nil), i.Reference.Data...)
	}
	return req
}

// Request is the immutable snapshot of an Input at the moment generation
// was triggered. It is what gets sent to the remote endpoint.
type Request struct {
	Script        string
	ReferenceName string
	ReferenceData []byte
	Language      Language
}

// Outcome is the interpreted result of one synthesis call: either a
// resource URL for the cloned audio or a user-facing error message.
type Outcome struct {
	URL string
	Err string
}

// Succeeded reports whether the outcome carries a playable resource.
func (o Outcome) Succeeded() bool {
	return o.Err == "" && o.URL != ""
}

// Success builds a successful outcome for the given resource locator.
func Success(url string) Outcome {
	return Outcome{URL: url}
}

// Failure builds a failed outcome carrying a user-facing message.
func Failure(message string) Outcome {
	return Outcome{Err: message}
}
