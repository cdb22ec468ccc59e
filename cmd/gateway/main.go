package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/joho/godotenv"

	"github.com/Abitto-org/user-app/api"
	"github.com/Abitto-org/user-app/internal/config"
	"github.com/Abitto-org/user-app/internal/logging"
	"github.com/Abitto-org/user-app/localstore"
	"github.com/Abitto-org/user-app/server"
	"github.com/Abitto-org/user-app/session"
)

func main() {
	for {
		if err := run(); err != nil {
			log.Fatalf("Error running gateway: %s\n", err)
			time.Sleep(1 * time.Second)
		} else {
			break
		}
	}
	log.Printf("Gateway stopped\n")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered from panic: %v\n", r)
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	_ = godotenv.Load()

	c := loadConfig()
	displayAppname(c.GetAppName())
	logger := logging.NewLogger(c.GetAppName(), c.GetEnv())

	kv, err := localstore.NewFileStore(c.GetDataFolder())
	if err != nil {
		return fmt.Errorf("localstore.NewFileStore: %w", err)
	}
	sessions := session.NewStore(kv)

	transport := &api.Transport{
		Sessions: sessions,
		Reserved: server.ReservedSegments,
		Logger:   logging.WithComponent(logger, "dispatcher"),
	}
	apiClient, err := api.NewClient(c.GetAPIBaseURL(), time.Duration(c.GetAPITimeoutSeconds())*time.Second, transport)
	if err != nil {
		return fmt.Errorf("api.NewClient: %w", err)
	}

	gateway, err := server.New(c, logging.WithComponent(logger, "server"), sessions, kv, apiClient)
	if err != nil {
		return fmt.Errorf("server.New: %w", err)
	}

	httpServer := &http.Server{Addr: c.GetPort(), Handler: gateway}
	go listenAndServe(httpServer)
	waitForStopSignal()
	returnError = shutdown(httpServer)
	return returnError
}

// loadConfig prefers the yaml config file when one exists; environment
// variables override either way.
func loadConfig() config.Config {
	path := config.GetEnv("CONFIG_FILE", "gateway.yaml")
	if _, err := os.Stat(path); err == nil {
		c, err := config.NewFromFile(path)
		if err == nil {
			return c
		}
		log.Printf("Ignoring config file %s: %v\n", path, err)
	}
	return config.New()
}

func listenAndServe(httpServer *http.Server) error {
	log.Printf("Gateway listening on %s\n", httpServer.Addr)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("httpServer.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}

func shutdown(httpServer *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("httpServer.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
