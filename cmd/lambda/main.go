package main

import (
	"context"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-lambda-go/lambdacontext"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/serverless-todo/internal/config"
	"github.com/BuzzLyutic/serverless-todo/internal/function"
)

// The deployed function always talks to DynamoDB; the other table backends
// are for the local function server.
func main() {
	cfg, err := config.Load(os.Getenv("TODO_CONFIG"))
	if err != nil {
		zap.NewExample().Fatal("Failed to load config", zap.Error(err))
	}
	logger, err := cfg.Logger()
	if err != nil {
		zap.NewExample().Fatal("Failed to build logger", zap.Error(err))
	}
	defer logger.Sync()

	table, err := function.OpenDynamoTable(context.Background(), cfg.Region)
	if err != nil {
		logger.Fatal("Failed to open table", zap.Error(err))
	}

	h := function.NewHandler(table, function.Options{
		DefaultTable:             cfg.TableName,
		PageSize:                 cfg.ScanPageSize,
		LegacyFunctionNameAction: cfg.LegacyFunctionNameAction,
	}, logger)

	lambda.Start(func(ctx context.Context, ev function.Event) (function.Response, error) {
		return h.Handle(ctx, ev, lambdacontext.FunctionName), nil
	})
}
