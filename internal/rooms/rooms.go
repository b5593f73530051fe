// Package rooms holds the room definitions the game is played against:
// an ordered list of prompts with server-side accepted answers and hint text.
package rooms

import (
	"encoding/json"
	"fmt"
	"os"
)

// Room is one stage of the game. Identified by its zero-based position in
// the ordered list; immutable once loaded. Answers and Hint are server-side
// only and must never be sent to players unprompted.
type Room struct {
	Title   string   `json:"title"`
	Intro   string   `json:"intro,omitempty"`
	Prompt  string   `json:"prompt"`
	Hint    string   `json:"hint"`
	Answers []string `json:"answers"`
}

// LoadFile reads an ordered JSON array of rooms from path.
// A missing or malformed file yields an empty list, not an error: the game
// degrades to zero rooms rather than refusing to start.
func LoadFile(path string) []Room {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var list []Room
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil
	}
	return list
}

// Validate rejects room lists that would break gameplay.
func Validate(list []Room) error {
	for i, r := range list {
		if r.Title == "" || r.Prompt == "" {
			return fmt.Errorf("room %d: title and prompt are required", i)
		}
		if len(r.Answers) == 0 {
			return fmt.Errorf("room %d: at least one accepted answer is required", i)
		}
	}
	return nil
}

// Defaults is the embedded room list used when no rooms have been authored.
// Themed on a power outage in an engineering building; the accepted answers
// can be overridden per room with ANSWERS_L1.. environment variables.
func Defaults() []Room {
	return []Room{
		{
			Title:  "Room 1 — The VR Suite",
			Intro:  "A storm has knocked out power to the engineering building. Work through each lab to bring the grid back online.",
			Prompt: "The backup console boots to a lock screen. Its password is the name of the room where students walk through buildings that don't exist yet.",
			Hint:   "Headsets line the wall. The room code starts with VR.",
			Answers: []string{
				"vr204", "vr suite", "virtual reality", "vr",
			},
		},
		{
			Title:  "Room 2 — The Fire Lab",
			Prompt: "The breaker panel asks for the lab designation stenciled on the flame-test bench.",
			Hint:   "Materials go in, char comes out. FIRELAB and a two-digit number.",
			Answers: []string{
				"firelab02", "fire lab", "flammability",
			},
		},
		{
			Title:  "Room 3 — The Print Farm",
			Prompt: "A filament spool hides the next code: the printer model humming away in the corner.",
			Hint:   "Prusa's workhorse. Three characters, then a digit, then a letter.",
			Answers: []string{
				"mk3s", "prusa", "3d printing", "3d printing room",
			},
		},
		{
			Title:  "Room 4 — The Motorsport Bay",
			Prompt: "The chassis jig is padlocked. The combination is the discipline painted across the bay doors.",
			Hint:   "Carbon fibre, wings, and lap times.",
			Answers: []string{
				"motorsport", "velocity", "composites", "motorsport lab",
			},
		},
		{
			Title:  "Room 5 — The Flight Deck",
			Prompt: "The last door before the plant room. Enter the name of the lab where pilots crash without leaving the ground.",
			Hint:   "Six axes of motion, zero feet of altitude. Try the LG code.",
			Answers: []string{
				"simulation", "simlab", "flightsim", "lg01",
			},
		},
		{
			Title:  "Room 6 — The Plant Room",
			Prompt: "Five breakers line the wall, but one is a dummy. How many breakers must be thrown to restore power?",
			Hint:   "Count the breakers with live wiring behind them.",
			Answers: []string{
				"5",
			},
		},
	}
}
