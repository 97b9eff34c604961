package rules

// CheckVictory evaluates the two win conditions. It returns the winner
// and victory type, or ok=false while the game is undecided. Victory is
// never evaluated during setup.
func CheckVictory(state GameState, defs PieceDefinitions) (PlayerID, VictoryType, bool) {
	if state.Phase != PhaseGameplay {
		return "", "", false
	}

	// Objective: a player's Void standing on the opposing Amalgam's home
	// coordinate. Checked for both sides in fixed order.
	for _, player := range []PlayerID{PlayerCircles, PlayerSquares} {
		home, ok := defs.AmalgamHome(player.Opponent())
		if !ok {
			continue
		}
		for _, p := range state.PiecesOf(player) {
			if p.Type == PieceVoid && p.Coords == home {
				return player, VictoryObjective, true
			}
		}
	}

	// Elimination: a player with no surviving setup-placed gems loses.
	for _, player := range []PlayerID{PlayerCircles, PlayerSquares} {
		if countPlacedGems(state, player) == 0 {
			return player.Opponent(), VictoryElimination, true
		}
	}

	return "", "", false
}

func countPlacedGems(state GameState, player PlayerID) int {
	n := 0
	for _, p := range state.PiecesOf(player) {
		if p.Type.IsGem() && !p.PrePlaced {
			n++
		}
	}
	return n
}
