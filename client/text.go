package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spetersoncode/polli"
	"github.com/spetersoncode/polli/model"
)

const defaultTextTimeout = 60 * time.Second

// GenerateText answers a single prompt. With polli.WithJSON the body is
// decoded into TextResult.JSON; a body that is not valid JSON is returned
// as text instead of failing.
func (c *Client) GenerateText(ctx context.Context, prompt string, opts ...polli.Option) (*polli.TextResult, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, polli.NewUserInputError("text", polli.ErrEmptyPrompt)
	}
	o := c.options(opts)

	q := url.Values{}
	q.Set("model", modelOr(o.Model, model.DefaultText))
	q.Set("seed", strconv.Itoa(seedOr(o.Seed)))
	if o.JSON {
		q.Set("json", "true")
	}
	if o.System != "" {
		q.Set("system", o.System)
	}
	if o.Private != nil {
		q.Set("private", strconv.FormatBool(*o.Private))
	}

	data, _, err := c.do(ctx, &request{
		op:      "text",
		method:  http.MethodGet,
		url:     c.cfg.TextPromptBase + "/" + escapePath(prompt),
		query:   q,
		auth:    c.cfg.Auth.override(o.Referrer, o.Token),
		timeout: timeoutOr(o.Timeout, defaultTextTimeout),
	})
	if err != nil {
		return nil, err
	}

	res := &polli.TextResult{Text: string(data)}
	if o.JSON {
		var v any
		if err := json.Unmarshal(data, &v); err == nil {
			res.JSON = v
		} else {
			c.logger.Debug("text response is not JSON", "error", err)
		}
	}
	return res, nil
}
