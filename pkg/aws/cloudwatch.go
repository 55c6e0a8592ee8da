package aws

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs/types"
)

// CloudWatchLogsClient ships log lines to CloudWatch Logs. It implements
// io.Writer so it can be tee'd into the zap core. Disabled unless
// CLOUDWATCH_ENABLED=true.
type CloudWatchLogsClient struct {
	client        *cloudwatchlogs.Client
	logGroupName  string
	logStreamName string
	sequenceToken *string
	enabled       bool
}

func NewCloudWatchLogsClient(ctx context.Context, serviceName string) (*CloudWatchLogsClient, error) {
	enabled := os.Getenv("CLOUDWATCH_ENABLED") == "true"

	cfg, err := LoadAWSConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	logGroupName := os.Getenv("CLOUDWATCH_LOG_GROUP")
	if logGroupName == "" {
		logGroupName = "/lumora-candles/services"
	}

	c := &CloudWatchLogsClient{
		client:        cloudwatchlogs.NewFromConfig(cfg),
		logGroupName:  logGroupName,
		logStreamName: fmt.Sprintf("%s-%d", serviceName, time.Now().Unix()),
		enabled:       enabled,
	}

	if enabled {
		if err := c.ensureLogGroup(ctx); err != nil {
			return nil, fmt.Errorf("failed to ensure log group: %w", err)
		}
		if err := c.createLogStream(ctx); err != nil {
			return nil, fmt.Errorf("failed to create log stream: %w", err)
		}
	}

	return c, nil
}

func (c *CloudWatchLogsClient) ensureLogGroup(ctx context.Context) error {
	_, err := c.client.CreateLogGroup(ctx, &cloudwatchlogs.CreateLogGroupInput{
		LogGroupName: aws.String(c.logGroupName),
	})
	if err != nil {
		var existsErr *types.ResourceAlreadyExistsException
		if !errors.As(err, &existsErr) {
			return err
		}
	}

	_, err = c.client.PutRetentionPolicy(ctx, &cloudwatchlogs.PutRetentionPolicyInput{
		LogGroupName:    aws.String(c.logGroupName),
		RetentionInDays: aws.Int32(30),
	})
	if err != nil {
		return fmt.Errorf("failed to set retention policy: %w", err)
	}
	return nil
}

func (c *CloudWatchLogsClient) createLogStream(ctx context.Context) error {
	_, err := c.client.CreateLogStream(ctx, &cloudwatchlogs.CreateLogStreamInput{
		LogGroupName:  aws.String(c.logGroupName),
		LogStreamName: aws.String(c.logStreamName),
	})
	return err
}

// PutLogEvents ships a batch of log events to the stream.
func (c *CloudWatchLogsClient) PutLogEvents(ctx context.Context, events []types.InputLogEvent) error {
	if !c.enabled || len(events) == 0 {
		return nil
	}

	out, err := c.client.PutLogEvents(ctx, &cloudwatchlogs.PutLogEventsInput{
		LogGroupName:  aws.String(c.logGroupName),
		LogStreamName: aws.String(c.logStreamName),
		LogEvents:     events,
		SequenceToken: c.sequenceToken,
	})
	if err != nil {
		return fmt.Errorf("failed to put log events: %w", err)
	}

	c.sequenceToken = out.NextSequenceToken
	return nil
}

// Write implements io.Writer for log shipping. Failures never propagate into
// the caller's logging path.
func (c *CloudWatchLogsClient) Write(p []byte) (n int, err error) {
	if !c.enabled {
		return len(p), nil
	}

	event := types.InputLogEvent{
		Message:   aws.String(string(p)),
		Timestamp: aws.Int64(time.Now().UnixMilli()),
	}
	if err := c.PutLogEvents(context.Background(), []types.InputLogEvent{event}); err != nil {
		fmt.Fprintf(os.Stderr, "cloudwatch write error: %v\n", err)
	}
	return len(p), nil
}

// IsEnabled reports whether log shipping is active.
func (c *CloudWatchLogsClient) IsEnabled() bool {
	return c.enabled
}
