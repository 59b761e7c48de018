package test

import (
	"errors"
	"fmt"
)

const (
	Region    = "us-east-1"
	AccountID = "123456789012"
)

var ErrorTest = errors.New("test")

func QueueURL(name string) string {
	return fmt.Sprintf("https://sqs.%s.amazonaws.com/%s/%s", Region, AccountID, name)
}

func QueueARN(name string) string {
	return fmt.Sprintf("arn:aws:sqs:%s:%s:%s", Region, AccountID, name)
}

func RedrivePolicy(deadLetterQueueName string) string {
	return fmt.Sprintf(`{"deadLetterTargetArn":"%s","maxReceiveCount":5}`, QueueARN(deadLetterQueueName))
}
