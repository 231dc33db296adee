// Mints and revokes bearer tokens in the redis session store, for local
// development against the API without the real identity provider.
package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"

	"github.com/healthyduck/fitnessapi/internal/auth"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
)

func main() {
	redisHost := flag.String("redis-host", "localhost", "redis host")
	redisPort := flag.String("redis-port", "6379", "redis port")
	userID := flag.String("user", "", "user id to mint a session for")
	email := flag.String("email", "", "user email")
	revokeToken := flag.String("revoke", "", "token to revoke instead of minting")
	flag.Parse()

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(*redisHost, *redisPort),
		Password: os.Getenv("FITNESS_API_REDIS_PASS"),
	})
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Errorf("close redis client: %s", err)
		}
	}()

	ctx := context.Background()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatalf("ping redis: %s", err)
	}

	provider := auth.NewProvider(auth.DefaultTTL, rdb)

	if *revokeToken != "" {
		if err := provider.RemoveSession(ctx, *revokeToken); err != nil {
			log.Fatalf("remove session: %s", err)
		}
		fmt.Println("session revoked")
		return
	}

	if *userID == "" {
		log.Fatal("user id required, use -user")
	}

	token, err := provider.StoreSession(ctx, auth.Identity{
		ID:    *userID,
		Email: *email,
	})
	if err != nil {
		log.Fatalf("store session: %s", err)
	}

	fmt.Printf("token for %s:\n%s\n", *userID, token)
}
