package model

// ClubInfo is the static metadata served by /api/club-info.
type ClubInfo struct {
	Name        string   `json:"name" yaml:"name"`
	Institute   string   `json:"institute" yaml:"institute"`
	Campus      string   `json:"campus" yaml:"campus"`
	Description string   `json:"description" yaml:"description"`
	Mission     string   `json:"mission" yaml:"mission"`
	Activities  []string `json:"activities" yaml:"activities"`
}

func DefaultClubInfo() ClubInfo {
	return ClubInfo{
		Name:        "Developer Students Club",
		Institute:   "SRM Institute of Science and Technology",
		Campus:      "Ramapuram",
		Description: "Empowering the next generation of developers through collaborative learning, innovative projects, and community building.",
		Mission:     "Developer Students Club at SRM IST Ramapuram is a community-driven initiative that aims to help students bridge the gap between theory and practice.",
		Activities: []string{
			"Workshops and technical sessions",
			"Hackathons and coding competitions",
			"Study jams and collaborative learning",
			"Open-source contributions",
			"Industry mentorship programs",
		},
	}
}
