package history

type AccoladeID string

const (
	AccoladeDoubleThreat AccoladeID = "double_threat"
	AccoladeCentury      AccoladeID = "century"
	AccoladeRegular      AccoladeID = "regular"
	AccoladeSharpEar     AccoladeID = "sharp_ear"
)

type Accolade struct {
	ID          AccoladeID
	Name        string
	Description string
	Icon        string
}

var AllAccolades = map[AccoladeID]Accolade{
	AccoladeDoubleThreat: {ID: AccoladeDoubleThreat, Name: "Double Threat", Description: "10+ rounds with both artist and track right", Icon: "🎯"},
	AccoladeCentury:      {ID: AccoladeCentury, Name: "Century", Description: "100+ career points", Icon: "💯"},
	AccoladeRegular:      {ID: AccoladeRegular, Name: "Regular", Description: "Played 10+ games", Icon: "🏅"},
	AccoladeSharpEar:     {ID: AccoladeSharpEar, Name: "Sharp Ear", Description: "Half of 20+ answers perfect", Icon: "🎧"},
}

// EvaluateAccolades checks which accolades a player's career stats earn.
func EvaluateAccolades(stats PlayerStats) []Accolade {
	var earned []Accolade

	if stats.PerfectAnswers >= 10 {
		earned = append(earned, AllAccolades[AccoladeDoubleThreat])
	}
	if stats.TotalPoints >= 100 {
		earned = append(earned, AllAccolades[AccoladeCentury])
	}
	if stats.GamesPlayed >= 10 {
		earned = append(earned, AllAccolades[AccoladeRegular])
	}
	if stats.Answers >= 20 && stats.PerfectAnswers*2 >= stats.Answers {
		earned = append(earned, AllAccolades[AccoladeSharpEar])
	}

	return earned
}
