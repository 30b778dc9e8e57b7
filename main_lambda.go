//go:build lambda

package main

import (
	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"
)

func main() {
	if l, err := newLogger(false); err == nil {
		logger = l
		defer logger.Sync()
	}
	logger.Info("lambda start", zap.Int("maxHorizon", MaxHorizon))
	lambda.Start(handler)
}
