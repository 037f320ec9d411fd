package style

import (
	"github.com/charmbracelet/lipgloss"
)

// Color definitions using AdaptiveColor for automatic light/dark mode switching
var (
	PrimaryColor = lipgloss.AdaptiveColor{
		Light: "#007ACC", // Blue
		Dark:  "#3D9EFF",
	}

	SecondaryColor = lipgloss.AdaptiveColor{
		Light: "#6C757D",
		Dark:  "#A0A8B0",
	}

	SuccessColor = lipgloss.AdaptiveColor{
		Light: "#28A745",
		Dark:  "#4CDD76",
	}

	ErrorColor = lipgloss.AdaptiveColor{
		Light: "#DC3545",
		Dark:  "#FF6B7D",
	}

	WarningColor = lipgloss.AdaptiveColor{
		Light: "#FFC107",
		Dark:  "#FFD54F",
	}

	MutedColor = lipgloss.AdaptiveColor{
		Light: "#6C757D",
		Dark:  "#ADB5BD",
	}

	HeadingColor = lipgloss.AdaptiveColor{
		Light: "#212529",
		Dark:  "#F8F9FA",
	}
)

// Category colors used by template listings
var CategoryColors = map[string]lipgloss.AdaptiveColor{
	"app":            {Light: "#0EA5E9", Dark: "#38BDF8"},
	"database":       {Light: "#8B5CF6", Dark: "#A78BFA"},
	"infrastructure": {Light: "#F59E0B", Dark: "#FBBF24"},
	"microservice":   {Light: "#10B981", Dark: "#34D399"},
	"base":           {Light: "#6C757D", Dark: "#A0A8B0"},
}
