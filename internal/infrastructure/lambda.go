package infrastructure

import (
	"context"
	"fmt"

	"botpanel/internal/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
)

// LambdaDeployer pushes chatbot code bundles to the AWS Lambda function that
// runs the deployed bots. A failed update is surfaced to the caller as-is;
// there is no retry or queueing.
type LambdaDeployer struct {
	client       *lambda.Client
	functionName string
}

type LambdaConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	FunctionName    string
}

func NewLambdaDeployer(ctx context.Context, cfg LambdaConfig) (*LambdaDeployer, error) {
	if cfg.FunctionName == "" {
		return nil, fmt.Errorf("lambda function name not configured")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return &LambdaDeployer{
		client:       lambda.NewFromConfig(awsCfg),
		functionName: cfg.FunctionName,
	}, nil
}

func (d *LambdaDeployer) UpdateFunctionCode(ctx context.Context, s3Bucket, s3Key string) (*interfaces.DeployResult, error) {
	out, err := d.client.UpdateFunctionCode(ctx, &lambda.UpdateFunctionCodeInput{
		FunctionName: aws.String(d.functionName),
		S3Bucket:     aws.String(s3Bucket),
		S3Key:        aws.String(s3Key),
	})
	if err != nil {
		return nil, fmt.Errorf("update function code: %w", err)
	}

	return &interfaces.DeployResult{
		FunctionArn:  aws.ToString(out.FunctionArn),
		CodeSha256:   aws.ToString(out.CodeSha256),
		LastModified: aws.ToString(out.LastModified),
		State:        string(out.State),
	}, nil
}
