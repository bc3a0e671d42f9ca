package api

import (
	"github.com/danielgtaylor/huma/v2"

	"github.com/nightstandapp/nightstand-server/internal/http/response"
)

// EnvelopeTransformer wraps every operation body in the response envelope:
// {"v":1,"success":true,"data":...} on success and
// {"v":1,"success":false,"error":...,"code":...} on failure.
func EnvelopeTransformer(_ huma.Context, _ string, v any) (any, error) {
	switch body := v.(type) {
	case response.Envelope:
		return body, nil
	case *APIError:
		return response.Fail(body.Code, body.Message, body.Details), nil
	case huma.StatusError:
		return response.Fail(statusToCode(body.GetStatus()), body.Error(), nil), nil
	default:
		return response.Wrap(v), nil
	}
}
