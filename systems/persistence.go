package systems

import (
	"encoding/json"
	"log"

	"github.com/automoto/doomerang-netclient/shared/netconfig"
	"github.com/quasilyte/gdata"
)

// SavedSettings represents the settings data stored on disk
type SavedSettings struct {
	ServerAddress string               `json:"serverAddress"`
	PlayerName    string               `json:"playerName"`
	Fullscreen    bool                 `json:"fullscreen"`
	DebugFlags    netconfig.DebugFlags `json:"debugFlags"`

	// Optional tuning overrides, zero means default
	BufferDepth   int     `json:"bufferDepth,omitempty"`
	RateWindow    int     `json:"rateWindow,omitempty"`
	DeadZoneTicks float64 `json:"deadZoneTicks,omitempty"`
	DilationGain  float64 `json:"dilationGain,omitempty"`
}

var gdataManager *gdata.Manager
var gdataInitialized bool

// InitPersistence initializes the gdata manager for settings storage
func InitPersistence() error {
	m, err := gdata.Open(gdata.Config{
		AppName: "doomerang_netclient",
	})
	if err != nil {
		log.Printf("Warning: Could not initialize persistence: %v", err)
		return err
	}
	gdataManager = m
	gdataInitialized = true
	return nil
}

// LoadSettings loads settings from disk
func LoadSettings() (*SavedSettings, error) {
	if !gdataInitialized || gdataManager == nil {
		return nil, nil
	}

	data, err := gdataManager.LoadItem("settings")
	if err != nil {
		log.Printf("Warning: Could not load settings: %v", err)
		return nil, nil
	}
	if len(data) == 0 {
		// No saved settings yet, use defaults
		return nil, nil
	}

	return DecodeSettings(data)
}

func DecodeSettings(data []byte) (*SavedSettings, error) {
	var settings SavedSettings
	if err := json.Unmarshal(data, &settings); err != nil {
		log.Printf("Warning: Could not parse saved settings: %v", err)
		return nil, err
	}
	return &settings, nil
}

// SaveSettings saves settings to disk
func SaveSettings(s *SavedSettings) error {
	if !gdataInitialized || gdataManager == nil {
		return nil
	}

	data, err := json.Marshal(s)
	if err != nil {
		log.Printf("Warning: Could not serialize settings: %v", err)
		return err
	}

	if err := gdataManager.SaveItem("settings", data); err != nil {
		log.Printf("Warning: Could not save settings: %v", err)
		return err
	}
	return nil
}

// ApplyTuning returns cfg with the saved overrides applied. Overrides that
// would break the control loop are ignored.
func ApplyTuning(saved *SavedSettings, cfg netconfig.SyncConfig) netconfig.SyncConfig {
	if saved == nil {
		return cfg
	}
	if saved.BufferDepth > 0 {
		cfg.BufferDepth = saved.BufferDepth
	}
	if saved.RateWindow > 0 {
		cfg.RateWindow = saved.RateWindow
	}
	if saved.DeadZoneTicks > 0 {
		cfg.DeadZoneTicks = saved.DeadZoneTicks
	}
	if saved.DilationGain > 0 {
		cfg.DilationGain = saved.DilationGain
	}
	return cfg
}
