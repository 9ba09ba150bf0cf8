package config

import (
	"image/color"

	"github.com/automoto/doomerang-netclient/shared/netconfig"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/yohamta/donburi/ecs"
)

// Config holds general window configuration
type Config struct {
	Width  int
	Height int
}

// PlayerConfig describes the local player's collision box. It must match the
// server's player hitbox or prediction drifts.
type PlayerConfig struct {
	Width  float64
	Height float64
}

// CameraConfig contains camera behavior configuration
type CameraConfig struct {
	FollowSmoothing float64 // How fast camera follows player (0.0-1.0)
}

// NetworkConfig is the connection setup, overridden by flags and saved
// settings.
type NetworkConfig struct {
	ServerAddress string
	PlayerName    string
	Version       string
}

// DebugConfig contains debug overlay options
type DebugConfig struct {
	Flags netconfig.DebugFlags

	// Keys that toggle each overlay
	SyncKey     ebiten.Key
	HitboxKey   ebiten.Key
	EntityIDKey ebiten.Key
}

// UIConfig contains HUD colours and layout
type UIConfig struct {
	BackgroundColor color.RGBA
	TileColor       color.RGBA
	HUDTextColor    color.RGBA
	ChatColor       color.RGBA
	ErrorColor      color.RGBA
	HealthBarBg     color.RGBA
	HealthBarFg     color.RGBA
	LineHeight      int
	Margin          int
}

// PlayerColorConfig generates remote player colours from their network id.
type PlayerColorConfig struct {
	HueStep    float64 // degrees between consecutive ids
	Saturation float64
	Value      float64
}

// Render layers
const (
	LayerWorld ecs.LayerID = iota
	LayerHUD
)

// Global configuration instances
var C *Config
var Player PlayerConfig
var Camera CameraConfig
var Network NetworkConfig
var Debug DebugConfig
var UI UIConfig
var PlayerColors PlayerColorConfig

// Shared RGBA color constants
var (
	White        = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	BrightGreen  = color.RGBA{R: 0, G: 255, B: 60, A: 255}
	LightGreen   = color.RGBA{R: 100, G: 255, B: 100, A: 255}
	Blue         = color.RGBA{R: 0, G: 100, B: 255, A: 255}
	LightRed     = color.RGBA{R: 255, G: 60, B: 60, A: 255}
	BlackOverlay = color.RGBA{R: 0, G: 0, B: 0, A: 180}
	Grey         = color.RGBA{R: 100, G: 100, B: 100, A: 255}
)

func init() {
	C = &Config{
		Width:  640,
		Height: 360,
	}

	Player = PlayerConfig{
		Width:  16,
		Height: 32,
	}

	Camera = CameraConfig{
		FollowSmoothing: 0.1,
	}

	Network = NetworkConfig{
		ServerAddress: "localhost:8080",
		PlayerName:    "player",
		Version:       "0.1.0",
	}

	Debug = DebugConfig{
		Flags:       netconfig.DebugOverlayNone,
		SyncKey:     ebiten.KeyF3,
		HitboxKey:   ebiten.KeyF4,
		EntityIDKey: ebiten.KeyF5,
	}

	UI = UIConfig{
		BackgroundColor: color.RGBA{20, 20, 30, 255},
		TileColor:       color.RGBA{70, 70, 90, 255},
		HUDTextColor:    LightGreen,
		ChatColor:       White,
		ErrorColor:      LightRed,
		HealthBarBg:     color.RGBA{40, 40, 40, 255},
		HealthBarFg:     color.RGBA{40, 220, 40, 255},
		LineHeight:      14,
		Margin:          4,
	}

	PlayerColors = PlayerColorConfig{
		HueStep:    137.5,
		Saturation: 0.55,
		Value:      1,
	}
}
