package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"rover-service/drive"
)

var (
	version      = flag.Bool("version", false, "Print version info")
	help         = flag.Bool("help", false, "Print help")
	logLevel     = flag.Int("log", 3, "Log level (0=NONE, 1=ERROR, 2=WARN, 3=INFO, 4=DEBUG)")
	redisServer  = flag.String("redis_server", "127.0.0.1", "Redis server address")
	redisPort    = flag.Int("redis_port", 6379, "Redis server port")
	serialDevice = flag.String("serial_device", "/dev/ttyACM0", "Serial command device")
	baudRate     = flag.Int("baud", 115200, "Serial bit rate")
	driveType    = flag.String("drive_type", "l298n", "Drive backend (l298n or can)")
	canDevice    = flag.String("can_device", "can0", "CAN device name (drive_type=can)")
	speed        = flag.Int("speed", drive.DefaultDuty, "Drive duty cycle (0-255)")
)

const (
	ProjectName    = "rover-service"
	ProjectVersion = "1.0.0"
)

func printVersion() {
	fmt.Printf("%s v%s\n", ProjectName, ProjectVersion)
}

func printHelp() {
	printVersion()
	flag.PrintDefaults()
}

func main() {
	flag.Parse()

	if *version {
		printVersion()
		os.Exit(0)
	}

	if *help {
		printHelp()
		os.Exit(0)
	}

	// Validate log level
	if *logLevel < 0 || *logLevel > 4 {
		log.Fatalf("invalid log level %d", *logLevel)
	}

	// Validate duty range
	if *speed < drive.MinDuty || *speed > drive.MaxDuty {
		log.Fatalf("invalid speed %d (must be %d-%d)", *speed, drive.MinDuty, drive.MaxDuty)
	}

	// Parse drive type
	var driveTypeEnum drive.DriveType
	switch *driveType {
	case "l298n":
		driveTypeEnum = drive.DriveTypeL298N
		log.Printf("Selected drive type: L298N")
	case "can":
		driveTypeEnum = drive.DriveTypeCANBridge
		log.Printf("Selected drive type: CAN bridge")
	default:
		log.Fatalf("invalid drive type: %s (must be 'l298n' or 'can')", *driveType)
	}

	opts := &Options{
		LogLevel:        LogLevel(*logLevel),
		RedisServerAddr: *redisServer,
		RedisServerPort: uint16(*redisPort),
		SerialDevice:    *serialDevice,
		BaudRate:        *baudRate,
		CANDevice:       *canDevice,
		DriveType:       driveTypeEnum,
		Speed:           uint8(*speed),
	}

	app, err := NewRoverApp(opts)
	if err != nil {
		log.Fatalf("failed to create rover app: %v", err)
	}
	defer app.Destroy()

	// Handle SIGINT and SIGTERM
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Run until signal received
	<-sigChan
}
