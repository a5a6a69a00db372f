package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

func main() {
	baseURL := flag.String("url", "http://localhost:8081", "Base URL of the message service")
	orgPtr := flag.String("org", "", "Organization id (random when empty)")
	listPtr := flag.Bool("list", false, "List the messages of the organization")
	smokePtr := flag.Bool("smoke", false, "Run a create/get/update/delete round trip")
	grpcAddr := flag.String("grpc-health", "", "Query the gRPC health service at host:port")
	helpPtr := flag.Bool("help", false, "Show usage information")

	flag.Parse()

	if *helpPtr || (!*listPtr && !*smokePtr && *grpcAddr == "") {
		fmt.Println("Message Tools Usage:")
		flag.PrintDefaults()
		os.Exit(0)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	organizationID := uuid.New()
	if *orgPtr != "" {
		parsed, err := uuid.Parse(*orgPtr)
		if err != nil {
			fmt.Printf("Invalid organization id: %v\n", err)
			os.Exit(1)
		}
		organizationID = parsed
	}

	client := newAPIClient(*baseURL)

	if *grpcAddr != "" {
		status, err := checkGRPCHealth(ctx, *grpcAddr)
		if err != nil {
			fmt.Printf("Error checking gRPC health: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("gRPC health: %s\n", status)
	}

	if *smokePtr {
		fmt.Printf("Running smoke test for organization %s...\n", organizationID)
		err := client.smoke(ctx, organizationID, func(format string, args ...any) {
			fmt.Printf(format+"\n", args...)
		})
		if err != nil {
			fmt.Printf("Smoke test failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Smoke test completed successfully!")
	}

	if *listPtr {
		messages, err := client.list(ctx, organizationID)
		if err != nil {
			fmt.Printf("Error listing messages: %v\n", err)
			os.Exit(1)
		}
		out, _ := json.MarshalIndent(messages, "", "  ")
		fmt.Println(string(out))
	}
}

func checkGRPCHealth(ctx context.Context, addr string) (string, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return "", fmt.Errorf("error creating client: %w", err)
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	resp, err := healthpb.NewHealthClient(conn).Check(ctx, &healthpb.HealthCheckRequest{})
	if err != nil {
		return "", err
	}
	return resp.GetStatus().String(), nil
}
