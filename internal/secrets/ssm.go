package secrets

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
)

// SSMAPI is the subset of the SSM client used here
type SSMAPI interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
	PutParameter(ctx context.Context, params *ssm.PutParameterInput, optFns ...func(*ssm.Options)) (*ssm.PutParameterOutput, error)
	AddTagsToResource(ctx context.Context, params *ssm.AddTagsToResourceInput, optFns ...func(*ssm.Options)) (*ssm.AddTagsToResourceOutput, error)
}

// SSMStore keeps secrets as SecureString parameters in AWS SSM Parameter Store
type SSMStore struct {
	client SSMAPI
}

// NewSSMStore builds a store from the default AWS credential chain
func NewSSMStore(ctx context.Context, region string) (*SSMStore, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return NewSSMStoreWithClient(ssm.NewFromConfig(awsCfg)), nil
}

func NewSSMStoreWithClient(client SSMAPI) *SSMStore {
	return &SSMStore{client: client}
}

func (s *SSMStore) Get(ctx context.Context, name string) (string, error) {
	out, err := s.client.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(name),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		var notFound *types.ParameterNotFound
		if errors.As(err, &notFound) {
			return "", fmt.Errorf("%w: %s", ErrSecretNotFound, name)
		}
		return "", fmt.Errorf("failed to get parameter %s: %w", name, err)
	}
	if out.Parameter == nil || out.Parameter.Value == nil {
		return "", fmt.Errorf("%w: %s", ErrSecretNotFound, name)
	}
	return *out.Parameter.Value, nil
}

func (s *SSMStore) Exists(ctx context.Context, name string) (bool, error) {
	_, err := s.Get(ctx, name)
	if errors.Is(err, ErrSecretNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Put writes a SecureString. SSM rejects tags together with Overwrite, so
// tags of an overwritten parameter are applied in a second call.
func (s *SSMStore) Put(ctx context.Context, secret Secret) error {
	tags := ssmTags(secret.Tags)
	input := &ssm.PutParameterInput{
		Name:        aws.String(secret.Name),
		Value:       aws.String(secret.Value),
		Description: aws.String(secret.Description),
		Type:        types.ParameterTypeSecureString,
		Overwrite:   aws.Bool(secret.Overwrite),
	}
	if !secret.Overwrite {
		input.Tags = tags
	}
	if _, err := s.client.PutParameter(ctx, input); err != nil {
		return fmt.Errorf("failed to store parameter %s: %w", secret.Name, err)
	}

	if secret.Overwrite && len(tags) > 0 {
		_, err := s.client.AddTagsToResource(ctx, &ssm.AddTagsToResourceInput{
			ResourceId:   aws.String(secret.Name),
			ResourceType: types.ResourceTypeForTaggingParameter,
			Tags:         tags,
		})
		if err != nil {
			return fmt.Errorf("failed to tag parameter %s: %w", secret.Name, err)
		}
	}
	return nil
}

func ssmTags(tags map[string]string) []types.Tag {
	keys := make([]string, 0, len(tags))
	for k := range tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]types.Tag, 0, len(keys))
	for _, k := range keys {
		out = append(out, types.Tag{Key: aws.String(k), Value: aws.String(tags[k])})
	}
	return out
}
