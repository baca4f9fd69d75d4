package predict

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"
)

// Backoff names a poll spacing strategy.
type Backoff string

const (
	BackoffConstant    Backoff = "constant"
	BackoffExponential Backoff = "exponential"
)

// DefaultPollInterval matches the container's expected client cadence.
const DefaultPollInterval = time.Second

// PollPolicy controls the poll loop. A zero Timeout polls until the job ends
// or the context is cancelled.
type PollPolicy struct {
	Interval    time.Duration
	MaxInterval time.Duration
	Timeout     time.Duration
	Backoff     Backoff
}

func (p PollPolicy) withDefaults() PollPolicy {
	if p.Interval <= 0 {
		p.Interval = DefaultPollInterval
	}
	if p.Backoff == "" {
		p.Backoff = BackoffConstant
	}
	return p
}

func (p PollPolicy) backoff() retry.Backoff {
	var b retry.Backoff
	switch p.Backoff {
	case BackoffExponential:
		b = retry.NewExponential(p.Interval)
		if p.MaxInterval > 0 {
			b = retry.WithCappedDuration(p.MaxInterval, b)
		}
	default:
		b = retry.NewConstant(p.Interval)
	}
	if p.Timeout > 0 {
		b = retry.WithMaxDuration(p.Timeout, b)
	}
	return b
}

// Config is the explicit configuration for a Predictor.
type Config struct {
	// APIURL is the prediction endpoint, e.g. http://localhost:5000/predictions.
	APIURL string
	// Token is forwarded as "Authorization: Token <value>" when set.
	Token string
	// Version is sent alongside the input for hosted models.
	Version string
	// PublicBaseURL prefixes local file paths so the container can fetch them
	// back, e.g. http://localhost:7860 -> http://localhost:7860/file=/tmp/x.png.
	PublicBaseURL string
	// RequestTimeout bounds each individual HTTP call.
	RequestTimeout time.Duration
	Poll           PollPolicy
}

// Validate checks required fields and applies defaults.
func (c Config) Validate() (Config, error) {
	if strings.TrimSpace(c.APIURL) == "" {
		return c, errors.New("predict: api url is required")
	}
	parsed, err := url.Parse(c.APIURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return c, fmt.Errorf("predict: invalid api url %q", c.APIURL)
	}
	switch c.Poll.Backoff {
	case "", BackoffConstant, BackoffExponential:
	default:
		return c, fmt.Errorf("predict: unknown backoff %q", c.Poll.Backoff)
	}
	c.PublicBaseURL = strings.TrimRight(c.PublicBaseURL, "/")
	c.Poll = c.Poll.withDefaults()
	return c, nil
}
