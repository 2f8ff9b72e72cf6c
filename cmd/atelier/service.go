package main

import (
	"fmt"
	"log"
	"os"

	"github.com/kardianos/service"
)

// serverProgram implements service.Interface. It runs the preview server
// with the watcher enabled so the pages stay current while the service
// is running.
type serverProgram struct {
	exit chan struct{}
}

// Start implements service.Interface
func (p *serverProgram) Start(s service.Service) error {
	log.Println("Starting Atelier site server...")
	p.exit = make(chan struct{})
	go p.run()
	return nil
}

// run serves the site until the service manager asks us to stop.
func (p *serverProgram) run() {
	cfg := loadConfig()
	setupLogging(cfg.App.DebugMode)
	serveSite(cfg, cfg.Server.Port, true, cfg.Server.AllowAll, p.exit)
}

// Stop implements service.Interface
func (p *serverProgram) Stop(s service.Service) error {
	log.Println("Stopping Atelier site server...")
	close(p.exit)
	return nil
}

// getServiceConfig returns the system service definition.
func getServiceConfig() *service.Config {
	return &service.Config{
		Name:        "AtelierServer",
		DisplayName: "Atelier Site Server",
		Description: "Serves the portfolio site locally and keeps the gallery pages current as the art directory changes",
		Arguments:   []string{"service", "run"},
	}
}

// runServiceCommand handles service management commands
func runServiceCommand() {
	if len(os.Args) < 3 {
		fmt.Println("Usage: atelier service [install|uninstall|start|stop|restart|status]")
		fmt.Println("\nAvailable commands:")
		fmt.Println("  install    - Install the site server as a system service")
		fmt.Println("  uninstall  - Uninstall the site server service")
		fmt.Println("  start      - Start the service")
		fmt.Println("  stop       - Stop the service")
		fmt.Println("  restart    - Restart the service")
		fmt.Println("  status     - Show service status")
		os.Exit(1)
	}

	action := os.Args[2]

	prg := &serverProgram{}
	svcConfig := getServiceConfig()
	s, err := service.New(prg, svcConfig)
	if err != nil {
		log.Fatalf("Failed to create service: %v", err)
	}

	switch action {
	case "run":
		// Invoked by the service manager, not by hand.
		if err := s.Run(); err != nil {
			log.Fatalf("Service failed: %v", err)
		}

	case "install":
		err = s.Install()
		if err != nil {
			log.Fatalf("Failed to install service: %v", err)
		}
		fmt.Println("✓ Service installed successfully")
		fmt.Println("\nNext steps:")
		fmt.Println("  1. Start the service: atelier service start")
		fmt.Println("  2. Verify it's running: atelier service status")
		fmt.Println("  3. View logs:")
		if service.Platform() == "darwin" {
			fmt.Println("     tail -f ~/Library/Logs/AtelierServer.log")
		} else if service.Platform() == "windows-service" {
			fmt.Println("     Check Event Viewer or C:\\ProgramData\\AtelierServer\\logs")
		} else {
			fmt.Println("     journalctl -u AtelierServer -f")
		}

	case "uninstall":
		err = s.Uninstall()
		if err != nil {
			log.Fatalf("Failed to uninstall service: %v", err)
		}
		fmt.Println("✓ Service uninstalled successfully")

	case "start":
		err = s.Start()
		if err != nil {
			log.Fatalf("Failed to start service: %v", err)
		}
		fmt.Println("✓ Service started successfully")
		fmt.Println("\nThe site server is now running in the background.")
		fmt.Println("Open the preview in a browser: http://localhost:<port>/pages/gallery.html")

	case "stop":
		err = s.Stop()
		if err != nil {
			log.Fatalf("Failed to stop service: %v", err)
		}
		fmt.Println("✓ Service stopped successfully")

	case "restart":
		err = s.Restart()
		if err != nil {
			log.Fatalf("Failed to restart service: %v", err)
		}
		fmt.Println("✓ Service restarted successfully")

	case "status":
		status, err := s.Status()
		if err != nil {
			log.Fatalf("Failed to get service status: %v", err)
		}

		fmt.Println("Service Status:")
		switch status {
		case service.StatusRunning:
			fmt.Println("  Status: ✓ Running")
		case service.StatusStopped:
			fmt.Println("  Status: ● Stopped")
		case service.StatusUnknown:
			fmt.Println("  Status: ? Unknown")
		default:
			fmt.Printf("  Status: %v\n", status)
		}

		fmt.Println("\nService Details:")
		fmt.Printf("  Name: %s\n", svcConfig.Name)
		fmt.Printf("  Display Name: %s\n", svcConfig.DisplayName)
		fmt.Printf("  Description: %s\n", svcConfig.Description)

	default:
		fmt.Printf("Unknown service command: %s\n", action)
		fmt.Println("Usage: atelier service [install|uninstall|start|stop|restart|status]")
		os.Exit(1)
	}
}
