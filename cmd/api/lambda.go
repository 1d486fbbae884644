package main

import (
	"context"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/awslabs/aws-lambda-go-api-proxy/httpadapter"
	"github.com/saulo-duarte/interviewace-api/internal/container"
	"github.com/spf13/cobra"
)

var lambdaCmd = &cobra.Command{
	Use:   "lambda",
	Short: "Run as an AWS Lambda behind API Gateway",
	RunE:  runLambda,
}

func init() {
	rootCmd.AddCommand(lambdaCmd)
}

func runLambda(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	c, err := container.New(ctx)
	if err != nil {
		return err
	}

	adapter := httpadapter.New(buildHandler(c))
	lambda.Start(adapter.ProxyWithContext)
	return nil
}
