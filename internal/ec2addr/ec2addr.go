// Package ec2addr resolves the network address of a Minecraft server hosted
// on an EC2 instance, whose public IP changes across stop and start.
package ec2addr

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
)

var (
	ErrInstanceNotFound = errors.New("ec2addr: instance not found")
	ErrNotRunning       = errors.New("ec2addr: instance is not running")
	ErrNoAddress        = errors.New("ec2addr: instance has no address")
)

// DescribeInstancesAPI is the part of the EC2 client used here.
type DescribeInstancesAPI interface {
	DescribeInstances(ctx context.Context, params *ec2.DescribeInstancesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeInstancesOutput, error)
}

type Resolver struct {
	API DescribeInstancesAPI

	// Private selects the private address instead of the public one.
	Private bool
}

// New builds a Resolver from the default AWS credential chain. Empty region
// and profile leave the chain's own choice.
func New(ctx context.Context, region, profile string) (*Resolver, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	if profile != "" {
		opts = append(opts, awsconfig.WithSharedConfigProfile(profile))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("ec2addr: load aws config: %w", err)
	}
	return &Resolver{API: ec2.NewFromConfig(cfg)}, nil
}

// Resolve returns host:port for instanceID.
func (r *Resolver) Resolve(ctx context.Context, instanceID string, port uint16) (string, error) {
	out, err := r.API.DescribeInstances(ctx, &ec2.DescribeInstancesInput{
		InstanceIds: []string{instanceID},
	})
	if err != nil {
		return "", fmt.Errorf("ec2addr: describe %s: %w", instanceID, err)
	}

	inst, ok := findInstance(out, instanceID)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrInstanceNotFound, instanceID)
	}
	if inst.State == nil || inst.State.Name != types.InstanceStateNameRunning {
		state := "unknown"
		if inst.State != nil {
			state = string(inst.State.Name)
		}
		return "", fmt.Errorf("%w: %s is %s", ErrNotRunning, instanceID, state)
	}

	ip := aws.ToString(inst.PublicIpAddress)
	if r.Private || ip == "" {
		ip = aws.ToString(inst.PrivateIpAddress)
	}
	if ip == "" {
		return "", fmt.Errorf("%w: %s", ErrNoAddress, instanceID)
	}

	return net.JoinHostPort(ip, strconv.Itoa(int(port))), nil
}

func findInstance(out *ec2.DescribeInstancesOutput, id string) (types.Instance, bool) {
	for _, res := range out.Reservations {
		for _, inst := range res.Instances {
			if aws.ToString(inst.InstanceId) == id {
				return inst, true
			}
		}
	}
	return types.Instance{}, false
}
