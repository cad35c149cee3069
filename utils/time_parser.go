package utils

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
	"github.com/rs/zerolog/log"

	"reminder-bot/model"
)

// ParseDuration extends time.ParseDuration to support days (d).
func ParseDuration(s string) (time.Duration, error) {
	if strings.HasSuffix(s, "d") {
		daysStr := strings.TrimSuffix(s, "d")
		days, err := strconv.Atoi(daysStr)
		if err != nil {
			return 0, fmt.Errorf("invalid day value: %s", daysStr)
		}
		return time.Duration(days) * 24 * time.Hour, nil
	}
	return time.ParseDuration(s)
}

var humanTime = newHumanTimeParser()

func newHumanTimeParser() *when.Parser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	w.Add(bareDuration())
	return w
}

// CleanInput normalises a time phrase for the grammar: lower case, single
// spaces, no leading "in", no "from now" and no "at". Cleaning a cleaned
// phrase returns it unchanged.
func CleanInput(text string) string {
	tokens := strings.Fields(strings.ToLower(text))

	for changed := true; changed; {
		changed = false

		if len(tokens) > 0 && tokens[0] == "in" {
			tokens = tokens[1:]
			changed = true
		}
		for i := 0; i+1 < len(tokens); i++ {
			if tokens[i] == "from" && tokens[i+1] == "now" {
				tokens = append(tokens[:i:i], tokens[i+2:]...)
				changed = true
				break
			}
		}
		for i := 1; i < len(tokens); i++ {
			if tokens[i] == "at" {
				tokens = append(tokens[:i:i], tokens[i+1:]...)
				changed = true
				break
			}
		}
	}

	return strings.Join(tokens, " ")
}

// ParseHumanTime turns a phrase like "in 5 minutes" or "tomorrow at 5pm" into
// an instant in loc. A nil ref means now.
//
// Clock times without am/pm are read as 24-hour ("17:30") and land on the
// minute. A bare hour such as "at 5" is not a clock time: numbers the grammar
// leaves unread make the whole phrase an ErrParse.
func ParseHumanTime(text string, loc *time.Location, ref *time.Time) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	base := time.Now().In(loc)
	if ref != nil {
		base = ref.In(loc)
	}

	cleaned := CleanInput(text)
	logger := log.With().Str("raw_input", text).Str("clean_input", cleaned).Time("now", base).Logger()
	logger.Trace().Msg("parsing human time")

	if cleaned == "" {
		return time.Time{}, fmt.Errorf("%w: empty input", model.ErrParse)
	}

	result, err := parseSafely(cleaned, base)
	if err != nil {
		logger.Trace().Err(err).Msg("failed to parse raw input")
		return time.Time{}, fmt.Errorf("%w: %q: %v", model.ErrParse, text, err)
	}
	if result == nil {
		logger.Trace().Msg("no date or time found in input")
		return time.Time{}, fmt.Errorf("%w: %q", model.ErrParse, text)
	}

	if rest := unreadText(cleaned, result); strings.ContainsAny(rest, "0123456789") {
		logger.Trace().Str("unread", rest).Msg("input has unread numbers")
		return time.Time{}, fmt.Errorf("%w: %q: cannot read %q", model.ErrParse, text, strings.TrimSpace(rest))
	}

	parsed := result.Time.In(loc)
	if clockTimeRe.MatchString(result.Text) {
		parsed = time.Date(parsed.Year(), parsed.Month(), parsed.Day(), parsed.Hour(), parsed.Minute(), 0, 0, loc)
	}
	logger.Trace().Time("parsed_datetime", parsed).Msg("parsed human time")
	return parsed, nil
}

var clockTimeRe = regexp.MustCompile(`(?i)\b\d{1,2}(?::\d{2})?\s*(?:a\.?m\.?|p\.?m\.?)(?:\W|$)|\b\d{1,2}:\d{2}\b|\b(?:noon|midday|midnight)\b`)

// unreadText returns the parts of text outside the span the grammar matched.
func unreadText(text string, result *when.Result) string {
	start, end := result.Index, result.Index+len(result.Text)
	if start < 0 || end > len(text) || start > end {
		return ""
	}
	return text[:start] + " " + text[end:]
}

func parseSafely(text string, base time.Time) (result *when.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("grammar panic: %v", r)
		}
	}()
	return humanTime.Parse(text, base)
}

var durationUnits = map[string]time.Duration{
	"sec": time.Second, "secs": time.Second, "second": time.Second, "seconds": time.Second,
	"min": time.Minute, "mins": time.Minute, "minute": time.Minute, "minutes": time.Minute,
	"hr": time.Hour, "hrs": time.Hour, "hour": time.Hour, "hours": time.Hour,
	"day": 24 * time.Hour, "days": 24 * time.Hour,
	"week": 7 * 24 * time.Hour, "weeks": 7 * 24 * time.Hour,
}

var durationWords = map[string]int64{
	"a": 1, "an": 1, "one": 1, "two": 2, "three": 3, "four": 4, "five": 5, "six": 6,
	"seven": 7, "eight": 8, "nine": 9, "ten": 10, "eleven": 11, "twelve": 12,
	"fifteen": 15, "twenty": 20, "thirty": 30, "forty": 40, "fifty": 50,
}

var bareDurationRe = regexp.MustCompile(`(?i)(?:\W|^)(\d+|an?|one|two|three|four|five|six|seven|eight|nine|ten|eleven|twelve|fifteen|twenty|thirty|forty|fifty)\s*(seconds?|secs?|minutes?|mins?|hours?|hrs?|days?|weeks?)(\s+ago\b)?(?:\W|$)`)

// bareDuration matches relative durations without the "in" that CleanInput
// strips, e.g. "5 minutes" or "an hour". "5 minutes ago" is left to the
// past-time rule.
func bareDuration() rules.Rule {
	return &rules.F{
		RegExp: bareDurationRe,
		Applier: func(m *rules.Match, c *rules.Context, o *rules.Options, ref time.Time) (bool, error) {
			parts := bareDurationRe.FindStringSubmatch(m.Text)
			if parts == nil || parts[3] != "" {
				return false, nil
			}
			amount, ok := durationWords[strings.ToLower(parts[1])]
			if !ok {
				n, err := strconv.ParseInt(parts[1], 10, 64)
				if err != nil {
					return false, fmt.Errorf("duration amount %q: %w", parts[1], err)
				}
				amount = n
			}
			unit, ok := durationUnits[strings.ToLower(parts[2])]
			if !ok || amount <= 0 {
				return false, nil
			}
			if amount > math.MaxInt64/int64(unit) {
				return false, fmt.Errorf("duration %s %s is out of range", parts[1], parts[2])
			}
			d := time.Duration(amount) * unit
			if c.Duration > math.MaxInt64-d {
				return false, fmt.Errorf("duration %s %s is out of range", parts[1], parts[2])
			}
			c.Duration += d
			return true, nil
		},
	}
}
