package guidedapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	apperrors "github.com/guided/guided-web/internal/errors"
)

// errorBody is the backend's error envelope. detail is a string for application errors and
// a list of {loc, msg} objects for request validation failures.
type errorBody struct {
	Detail json.RawMessage `json:"detail"`
}

type validationDetail struct {
	Loc []any  `json:"loc"`
	Msg string `json:"msg"`
}

// decodeError maps a non-2xx response to an AppError.
func decodeError(status int, body []byte) error {
	msg := detailMessage(body)
	if msg == "" {
		msg = http.StatusText(status)
	}

	switch {
	case status == http.StatusUnauthorized:
		return apperrors.Unauthorized(msg)
	case status == http.StatusNotFound:
		return apperrors.NotFound(msg)
	case status == http.StatusConflict:
		return apperrors.Conflict(msg)
	case status >= http.StatusInternalServerError:
		return apperrors.Unavailable(fmt.Errorf("backend returned %d: %s", status, msg))
	default:
		// 400, 403, 422 and any other 4xx are business-rule rejections.
		return apperrors.Rejected(msg)
	}
}

func detailMessage(body []byte) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil || len(eb.Detail) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(eb.Detail, &s); err == nil {
		return s
	}

	var list []validationDetail
	if err := json.Unmarshal(eb.Detail, &list); err == nil {
		msgs := make([]string, 0, len(list))
		for _, d := range list {
			if d.Msg == "" {
				continue
			}
			if field := lastLoc(d.Loc); field != "" {
				msgs = append(msgs, field+": "+d.Msg)
				continue
			}
			msgs = append(msgs, d.Msg)
		}
		return strings.Join(msgs, "; ")
	}
	return ""
}

func lastLoc(loc []any) string {
	if len(loc) == 0 {
		return ""
	}
	if s, ok := loc[len(loc)-1].(string); ok {
		return s
	}
	return ""
}
