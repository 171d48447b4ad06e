package logger

import (
	"strconv"
	"strings"
	"sync"
	"time"
)

var levelNames = map[string]string{
	"debug":   "DEBUG",
	"info":    "INFO",
	"warn":    "WARN",
	"warning": "WARN",
	"error":   "ERROR",
}

var knownStatus = map[string]struct{}{
	"ok":        {},
	"fail":      {},
	"skip":      {},
	"duplicate": {},
	"noop":      {},
	"rejected":  {},
}

var knownOutcome = map[string]struct{}{
	"ok":        {},
	"fail":      {},
	"noop":      {},
	"cancelled": {},
}

func normalizeLevel(level string) string {
	if level == "" {
		return "INFO"
	}
	if mapped, ok := levelNames[strings.ToLower(level)]; ok {
		return mapped
	}
	return strings.ToUpper(level)
}

// normalizeStatus lowercases known statuses; anything else is reported as "other".
func normalizeStatus(status string) string {
	status = strings.ToLower(strings.TrimSpace(status))
	if _, ok := knownStatus[status]; ok {
		return status
	}
	return "other"
}

func normalizeOutcome(outcome string) (string, bool) {
	outcome = strings.ToLower(strings.TrimSpace(outcome))
	_, ok := knownOutcome[outcome]
	return outcome, ok
}

var defaultKeyOrder = []string{
	"ts",
	"level",
	"component",
	"event",
	"status",
	"rid",
	"rid_full",
	"ts_unix_nano",
	"update_id",
	"user_id",
	"chat_id",
	"chat_type",
	"kind",
	"handler",
	"cb_key",
	"transition",
	"screen",
	"outcome",
	"duration_ms",
	"messages",
	"kb",
	"payload",
	"lang",
	"username",
	"mode",
	"method",
	"path",
	"http_code",
	"listen",
	"public_url",
	"db",
	"host",
	"port",
	"err",
	"error_kind",
	"err_code",
	"cause",
}

// RoundMS rounds a duration to whole milliseconds.
func RoundMS(d time.Duration) time.Duration {
	if d <= 0 {
		return 0
	}
	return d.Round(time.Millisecond)
}

// Took returns the rounded time elapsed since start.
func Took(start time.Time) time.Duration {
	return RoundMS(time.Since(start))
}

// Status maps an error to the status attribute value.
func Status(err error) string {
	if err != nil {
		return "fail"
	}
	return "ok"
}

// ratioSampler lets through numerator events out of every denominator.
type ratioSampler struct {
	mu          sync.Mutex
	numerator   int
	denominator int
	counter     int
}

func newRatioSampler(numerator, denominator int) *ratioSampler {
	s := &ratioSampler{}
	s.Set(numerator, denominator)
	return s
}

func (s *ratioSampler) Set(numerator, denominator int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counter = 0
	if numerator <= 0 || denominator <= 0 {
		s.numerator, s.denominator = 0, 0
		return
	}
	if numerator > denominator {
		numerator = denominator
	}
	s.numerator, s.denominator = numerator, denominator
}

// Allow reports whether the next event passes; a zero ratio disables sampling.
func (s *ratioSampler) Allow() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.denominator == 0 {
		return true
	}
	s.counter++
	if s.counter > s.denominator {
		s.counter = 1
	}
	return s.counter <= s.numerator
}

// parseRatioSpec accepts "n/d" or a bare "d" meaning 1/d.
func parseRatioSpec(spec string) (int, int) {
	spec = strings.TrimSpace(spec)
	if num, den, found := strings.Cut(spec, "/"); found {
		n, err1 := strconv.Atoi(strings.TrimSpace(num))
		d, err2 := strconv.Atoi(strings.TrimSpace(den))
		if err1 == nil && err2 == nil {
			return n, d
		}
		return 0, 0
	}
	if v, err := strconv.Atoi(spec); err == nil && v > 0 {
		return 1, v
	}
	return 0, 0
}
