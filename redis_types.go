package main

// Redis message types for rover drive status updates
type RedisDriveStatus struct {
	State     string
	Directive string
	Speed     uint8
}

type RedisAngleStatus struct {
	Angle int
}
