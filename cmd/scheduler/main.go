package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/petrenko-v/dayplanner/internal/logger"
	"github.com/petrenko-v/dayplanner/internal/rabbit"
	"github.com/petrenko-v/dayplanner/internal/storagebuilder"
	log "github.com/sirupsen/logrus"
)

var configFile string

const (
	removeTimeout = time.Minute * 5
	checkTimeout  = time.Minute
	retention     = time.Hour * 24 * 365
)

func init() {
	flag.StringVar(&configFile, "config", "./configs/scheduler_config.yaml", "Path to configuration file")
	log.SetFormatter(&log.TextFormatter{})
	log.SetOutput(os.Stdout)
	log.SetLevel(log.WarnLevel)
}

func main() {
	flag.Parse()

	config, err := NewConfig(configFile)
	if err != nil {
		log.Errorf("failed to start %v", err)
		return
	}
	err = logger.PrepareLogger(config.Logger)
	if err != nil {
		log.Errorf("failed to start %v", err)
		return
	}

	r := rabbit.New(config.Rabbit)
	if err := r.Connect(); err != nil {
		log.Errorf("failed to connect to queue: %v", err)
		return
	}
	defer r.Close()

	stor, err := storagebuilder.New(config.Storage)
	if err != nil {
		log.Errorf("failed to start %v", err)
		return
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second*3)
		defer cancel()
		stor.Close(ctx)
	}()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer cancel()

	// Publishes reminders for events whose start time enters the window
	// since the previous tick, and periodically drops long-past events.
	window := config.LookAhead
	startTime := time.Now()
	endTime := startTime.Add(window)
	checkTicker := time.NewTicker(checkTimeout)
	removeTicker := time.NewTicker(removeTimeout)
	for {
		log.Debugf("get events: %s - %s", startTime, endTime)
		events, err := stor.ListStartingBetween(ctx, startTime, endTime)
		if err != nil {
			log.Errorf("failed to get events: %s", err)
		}
		for _, event := range events {
			log.Debugf("send event: %v", event)
			m := rabbit.NewMessage(event)
			data, _ := json.Marshal(m)
			if err := r.Publish(data); err != nil {
				log.Errorf("failed to publish reminder: %v", err)
			}
		}
		select {
		case <-ctx.Done():
			return
		case <-checkTicker.C:
			startTime = endTime
			endTime = time.Now().Add(window)
		case <-removeTicker.C:
			if err := stor.RemoveStartedBefore(ctx, time.Now().Add(-retention)); err != nil {
				log.Errorf("failed to remove old events: %v", err)
			}
		}
	}
}
