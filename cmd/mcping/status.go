package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/gstoney/mcproto"
	"github.com/gstoney/mcproto/internal/ec2addr"
	"github.com/gstoney/mcproto/packet"
)

type statusOptions struct {
	timeout     time.Duration
	protocol    int32
	raw         bool
	ec2Instance string
	region      string
	port        uint16
}

func statusCmd(g *globalFlags) *cobra.Command {
	opts := &statusOptions{}

	cmd := &cobra.Command{
		Use:   "status [ADDR]",
		Short: "Query the status of a server",
		Long: `Query the status of a server and measure the ping round trip.

ADDR is host[:port]. With --ec2-instance the address is the public
IP of that EC2 instance instead.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.load()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("timeout") {
				opts.timeout = cfg.Timeout
			}
			if !cmd.Flags().Changed("protocol") {
				opts.protocol = cfg.Protocol
			}
			if opts.region == "" {
				opts.region = cfg.AWS.Region
			}

			addr, err := opts.address(cmd.Context(), args, cfg.AWS.Profile)
			if err != nil {
				return err
			}

			res, err := queryStatus(cmd.Context(), addr, opts.protocol, opts.timeout)
			if err != nil {
				return fmt.Errorf("%s: %w", addr, err)
			}
			return printStatus(cmd, addr, res, opts.raw)
		},
	}

	cmd.Flags().DurationVarP(&opts.timeout, "timeout", "t", 5*time.Second, "timeout for the whole query")
	cmd.Flags().Int32Var(&opts.protocol, "protocol", packet.ProtocolVersion, "protocol version sent in the handshake")
	cmd.Flags().BoolVar(&opts.raw, "json", false, "print the status document as received")
	cmd.Flags().StringVar(&opts.ec2Instance, "ec2-instance", "", "resolve the address from an EC2 instance id")
	cmd.Flags().StringVar(&opts.region, "region", "", "AWS region of --ec2-instance")
	cmd.Flags().Uint16Var(&opts.port, "port", defaultPort, "server port with --ec2-instance")

	return cmd
}

func (o *statusOptions) address(ctx context.Context, args []string, profile string) (string, error) {
	switch {
	case o.ec2Instance != "" && len(args) > 0:
		return "", fmt.Errorf("ADDR and --ec2-instance are exclusive")
	case o.ec2Instance != "":
		r, err := ec2addr.New(ctx, o.region, profile)
		if err != nil {
			return "", err
		}
		return r.Resolve(ctx, o.ec2Instance, o.port)
	case len(args) == 0:
		return "", fmt.Errorf("ADDR or --ec2-instance required")
	}
	return args[0], nil
}

func printStatus(cmd *cobra.Command, addr string, res mcproto.StatusResult, raw bool) error {
	out := cmd.OutOrStdout()
	if raw {
		var v any
		if err := json.Unmarshal([]byte(res.Raw), &v); err != nil {
			return err
		}
		b, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(b))
		return nil
	}

	s := res.Status
	fmt.Fprintf(out, "%s\n", addr)
	fmt.Fprintf(out, "  Version:  %s (protocol %d)\n", s.Version.Name, s.Version.Protocol)
	if s.Players != nil {
		fmt.Fprintf(out, "  Players:  %d/%d\n", s.Players.Online, s.Players.Max)
		for _, p := range s.Players.Sample {
			fmt.Fprintf(out, "            %s (%s)\n", p.Name, p.ID)
		}
	}
	if motd := packet.ChatText(s.Description); motd != "" {
		fmt.Fprintf(out, "  MOTD:     %s\n", motd)
	}
	fmt.Fprintf(out, "  Latency:  %s\n", res.Latency.Round(time.Microsecond))
	return nil
}
