package identifier

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// QualityUnknown is the quality value used when no resolution token is found.
const QualityUnknown = "unknown"

// Components is the decomposition of a canonical episode code.
type Components struct {
	Slug    string
	Season  int    // 0 when no explicit season marker was present
	Episode int    // -1 when no episode number could be determined
	Quality string // "480p", "720p", "1080p", "2160p", or QualityUnknown
}

var (
	extensionRe  = regexp.MustCompile(`(?i)\.(mkv|mp4|avi|mov|webm|m4v|ts|wmv|flv)$`)
	separatorRe  = regexp.MustCompile(`[._]+`)
	qualityRe    = regexp.MustCompile(`(?i)\b(480|720|1080|2160)p?\b`)
	bracketRe    = regexp.MustCompile(`\[[^\]]*\]`)
	handleRe     = regexp.MustCompile(`@\w+`)
	seasonPairRe = regexp.MustCompile(`(?i)\bs(\d{1,2})[\s._-]*(?:ep?\.?[\s._-]*)?(\d{1,3})\b`)
	episodeRe    = regexp.MustCompile(`(?i)\b(?:episode|ep|e)\.?[\s._-]*(\d{1,3})\b`)
	standaloneRe = regexp.MustCompile(`\b\d{1,4}\b`)

	// Dashes are optional so degenerate codes with an empty slug still parse.
	parseRe = regexp.MustCompile(`^(.*?)(?:-?s(\d+))?(?:-?ep(\d+))?(?:-?(480|720|1080|2160)p)?$`)
)

// Derive converts an arbitrary raw filename or caption into a canonical
// episode code of the form <slug>[-s<season>][-ep<episode>][-<quality>p].
//
// The extraction of season and episode numbers from free text is a heuristic:
// explicit S<n> pairs win over Ep/E<n> markers, which win over the last
// standalone number. It is deterministic and total but not guaranteed to match
// intent for every title upstream uploaders invent.
func Derive(raw string) string {
	work := strings.TrimSpace(raw)
	work = extensionRe.ReplaceAllString(work, "")
	// Dots and underscores are separators in release-style names; flattening
	// them early lets the word-boundary matches below see the tokens.
	work = separatorRe.ReplaceAllString(work, " ")

	// Quality first: the token frequently lives inside bracket groups that the
	// next step throws away.
	quality := QualityUnknown
	if loc := qualityRe.FindStringSubmatchIndex(work); loc != nil {
		quality = work[loc[2]:loc[3]] + "p"
		work = work[:loc[0]] + " " + work[loc[1]:]
	}

	work = bracketRe.ReplaceAllString(work, " ")
	work = handleRe.ReplaceAllString(work, " ")

	season := 0
	episode := -1
	if m := seasonPairRe.FindStringSubmatchIndex(work); m != nil {
		season, _ = strconv.Atoi(work[m[2]:m[3]])
		episode, _ = strconv.Atoi(work[m[4]:m[5]])
		work = work[:m[0]] + " " + work[m[1]:]
	} else if m := episodeRe.FindStringSubmatchIndex(work); m != nil {
		episode, _ = strconv.Atoi(work[m[2]:m[3]])
		work = work[:m[0]] + " " + work[m[1]:]
	} else if all := standaloneRe.FindAllStringIndex(work, -1); len(all) > 0 {
		last := all[len(all)-1]
		episode, _ = strconv.Atoi(work[last[0]:last[1]])
		work = work[:last[0]] + " " + work[last[1]:]
	}

	// Leftover standalone digit groups carry no identity once quality and
	// episode numbers are accounted for.
	work = standaloneRe.ReplaceAllString(work, " ")

	return Compose(Components{
		Slug:    Slugify(work),
		Season:  season,
		Episode: episode,
		Quality: quality,
	})
}

// Compose renders components into a canonical code string. Absent fields are
// omitted; an empty slug yields a degenerate but valid code.
func Compose(c Components) string {
	parts := make([]string, 0, 4)
	if c.Slug != "" {
		parts = append(parts, c.Slug)
	}
	if c.Season > 0 {
		parts = append(parts, fmt.Sprintf("s%d", c.Season))
	}
	if c.Episode >= 0 {
		parts = append(parts, fmt.Sprintf("ep%d", c.Episode))
	}
	if c.Quality != "" && c.Quality != QualityUnknown {
		parts = append(parts, c.Quality)
	}
	return strings.Join(parts, "-")
}

// Parse is the inverse projection of Compose. It is best-effort on codes not
// produced by Derive: a slug that itself ends in an s<n> or ep<n> word is
// indistinguishable from the marker segments.
func Parse(code string) Components {
	c := Components{Episode: -1, Quality: QualityUnknown}
	m := parseRe.FindStringSubmatch(strings.TrimSpace(code))
	if m == nil {
		return c
	}
	c.Slug = strings.Trim(m[1], "-")
	if m[2] != "" {
		c.Season, _ = strconv.Atoi(m[2])
	}
	if m[3] != "" {
		c.Episode, _ = strconv.Atoi(m[3])
	}
	if m[4] != "" {
		c.Quality = m[4] + "p"
	}
	return c
}

var deaccent = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slugify canonicalizes a name fragment to lowercase ASCII letters, digits,
// and hyphens. Diacritics are stripped; anything else becomes a separator.
// Consecutive separators collapse and the result is trimmed.
func Slugify(fragment string) string {
	flattened, _, err := transform.String(deaccent, fragment)
	if err != nil {
		flattened = fragment
	}

	var b strings.Builder
	lastDash := true
	for _, r := range flattened {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}
