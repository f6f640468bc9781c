package chunker

import (
	"regexp"
	"strings"
)

var (
	whitespaceRE = regexp.MustCompile(`\s+`)

	fillerRE        = regexp.MustCompile(`(?i)\b(um|uh|er|ah|you know|basically|literally)\b`)
	bracketedRE     = regexp.MustCompile(`\[[^\]]*\]`)
	parentheticalRE = regexp.MustCompile(`\([^)]*\)`)
	lowercaseIRE    = regexp.MustCompile(`\bi\b`)
	missingSpaceRE  = regexp.MustCompile(`(\w)([.!?])(\w)`)
	repeatedDotRE   = regexp.MustCompile(`\.{2,}`)
	repeatedCommaRE = regexp.MustCompile(`,{2,}`)

	urlRE       = regexp.MustCompile(`https?://\S+|www\.\S+`)
	threadNumRE = regexp.MustCompile(`(\d+)/(\S)`)

	repeatedPunctRE = regexp.MustCompile(`([.!?])[.!?]+`)
	timestampRE     = regexp.MustCompile(`(?i)\[\d{1,2}:\d{2}(:\d{2})?\]|\d{1,2}:\d{2}(:\d{2})?\s*[-–]\s*|(Speaker|SPEAKER)\s*\d*:\s*`)
	metadataLineRE  = regexp.MustCompile(`(?im)^\s*(Transcript|Title|Description|Tags?):?\s*`)
	controlCharRE   = regexp.MustCompile(`[\x00-\x08\x0B\x0C\x0E-\x1F\x7F]`)
)

// CleanTranscript strips filler words, bracketed stage directions, and
// common transcription artifacts from speech-to-text output.
func CleanTranscript(text string) string {
	if text == "" {
		return ""
	}
	text = whitespaceRE.ReplaceAllString(text, " ")
	text = fillerRE.ReplaceAllString(text, "")
	text = bracketedRE.ReplaceAllString(text, "")
	text = parentheticalRE.ReplaceAllString(text, "")
	text = lowercaseIRE.ReplaceAllString(text, "I")
	text = missingSpaceRE.ReplaceAllString(text, "$1$2 $3")
	text = repeatedDotRE.ReplaceAllString(text, ".")
	text = repeatedCommaRE.ReplaceAllString(text, ",")
	return collapse(text)
}

// CleanSocial cleans tweets and thread posts: URLs out, thread
// numbering normalized, whitespace collapsed. Mentions and hashtags
// stay; they carry meaning.
func CleanSocial(text string) string {
	if text == "" {
		return ""
	}
	text = urlRE.ReplaceAllString(text, "")
	text = threadNumRE.ReplaceAllString(text, "$1/ $2")
	return collapse(text)
}

// Normalize applies general cleanup for embedding: repeated punctuation
// collapsed, whitespace normalized.
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	text = repeatedPunctRE.ReplaceAllString(text, "$1")
	return collapse(text)
}

// StripMetadata removes timestamps, speaker labels, and leading
// metadata markers from transcripts.
func StripMetadata(text string) string {
	if text == "" {
		return ""
	}
	text = timestampRE.ReplaceAllString(text, "")
	text = metadataLineRE.ReplaceAllString(text, "")
	return collapse(text)
}

// Sanitize removes control characters unsafe for storage and bounds
// total length.
func Sanitize(text string) string {
	const maxLength = 50000
	text = controlCharRE.ReplaceAllString(text, "")
	if len(text) > maxLength {
		text = text[:maxLength] + "..."
	}
	return text
}

// CleanByType routes content to the cleaner matching its origin.
func CleanByType(text, contentType string) string {
	switch contentType {
	case "audio", "video", "transcript":
		return CleanTranscript(StripMetadata(text))
	case "social", "twitter", "thread":
		return CleanSocial(text)
	default:
		return Normalize(text)
	}
}

func collapse(text string) string {
	return strings.TrimSpace(whitespaceRE.ReplaceAllString(text, " "))
}
