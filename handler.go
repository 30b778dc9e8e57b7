package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"
)

var jsonHeader = map[string]string{
	"Content-Type": "application/json",
}

// handler serves a Lambda Function URL. The body is a request document as
// read by ParseBlueprintsJSON, optionally carrying horizon/mode/head/workers.
func handler(ctx context.Context, event events.LambdaFunctionURLRequest) (events.LambdaFunctionURLResponse, error) {
	body := event.Body
	if event.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(body)
		if err != nil {
			return errResp(http.StatusBadRequest, "invalid base64 body")
		}
		body = string(decoded)
	}

	blueprints, err := ParseBlueprintsJSON(body)
	if err != nil {
		return errResp(http.StatusBadRequest, err.Error())
	}
	if len(blueprints) == 0 {
		return errResp(http.StatusBadRequest, "no blueprints")
	}

	cfg := applyRequestConfig(body, DefaultConfig())
	if err := cfg.Validate(); err != nil {
		return errResp(http.StatusBadRequest, err.Error())
	}

	summary, err := Run(ctx, blueprints, cfg)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return errResp(http.StatusGatewayTimeout, err.Error())
		}
		logger.Error("run failed", zap.Error(err))
		return errResp(http.StatusInternalServerError, err.Error())
	}

	respJSON, _ := json.Marshal(summary)
	return events.LambdaFunctionURLResponse{StatusCode: http.StatusOK, Headers: jsonHeader, Body: string(respJSON)}, nil
}

func errResp(code int, msg string) (events.LambdaFunctionURLResponse, error) {
	body, _ := json.Marshal(map[string]string{"error": msg})
	return events.LambdaFunctionURLResponse{StatusCode: code, Headers: jsonHeader, Body: string(body)}, nil
}
