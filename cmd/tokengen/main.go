// Command tokengen mints an operator access token and registers it in Redis
// so the API's identity gate accepts it.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"time"

	"bloodbank-inventory/config"
	"bloodbank-inventory/internal/infrastructure/cache"
	"bloodbank-inventory/internal/service"
	"bloodbank-inventory/internal/usecase"
	"bloodbank-inventory/pkg/jwt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

func main() {
	operator := flag.String("operator", "", "operator UUID (generated when empty)")
	email := flag.String("email", "", "operator email")
	roleID := flag.Int("role", 2, "role id: 1=admin, 2=staff, 3=member")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	operatorID := uuid.New()
	if *operator != "" {
		operatorID, err = uuid.Parse(*operator)
		if err != nil {
			logrus.Fatalf("Invalid operator ID: %v", err)
		}
	}

	log := logrus.StandardLogger()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	redisClient, err := cache.NewRedisClient(ctx, cfg.Redis, log)
	if err != nil {
		logrus.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	sessions := usecase.NewSessionUsecase(log, jwt.NewJWTService(cfg.JWT), service.NewSessionRegistry(log, redisClient))

	token, err := sessions.IssueToken(ctx, operatorID, *email, *roleID)
	if err != nil {
		logrus.Fatalf("Failed to issue token: %v", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(map[string]interface{}{
		"operator_id": operatorID,
		"token":       token,
	}); err != nil {
		logrus.Fatalf("Failed to write token: %v", err)
	}
}
