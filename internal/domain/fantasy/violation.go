package fantasy

// Violation is a stable snake_case code naming one broken roster rule.
// Codes are the wire contract shared by pre-validation and server enforcement.
type Violation string

const (
	ViolationSquadSize              Violation = "squad_must_have_15_players"
	ViolationSquadDuplicatePlayers  Violation = "squad_has_duplicate_players"
	ViolationSquadGoalkeepers       Violation = "squad_must_have_2_goalkeepers"
	ViolationSquadDefendersRange    Violation = "squad_defenders_out_of_range"
	ViolationSquadMidfieldersRange  Violation = "squad_midfielders_out_of_range"
	ViolationSquadForwardsRange     Violation = "squad_forwards_out_of_range"
	ViolationClubLimit              Violation = "max_3_players_per_team"
	ViolationBudgetExceeded         Violation = "budget_exceeded"
	ViolationSquadUnknownPlayers    Violation = "squad_has_unknown_players"
	ViolationNoValidSquadGenerated  Violation = "no_valid_squad_generated"
	ViolationNotEnoughGoalkeepers   Violation = "not_enough_goalkeepers"
	ViolationNotEnoughDefenders     Violation = "not_enough_defenders"
	ViolationNotEnoughMidfielders   Violation = "not_enough_midfielders"
	ViolationNotEnoughForwards      Violation = "not_enough_forwards"
	ViolationLineupSlotCount        Violation = "lineup_must_have_15_slots"
	ViolationLineupSlotIndex        Violation = "lineup_slot_index_duplicate"
	ViolationLineupStarterBench     Violation = "lineup_requires_11_starters_and_4_bench"
	ViolationLineupEmptySlots       Violation = "lineup_has_empty_slots"
	ViolationLineupDuplicatePlayers Violation = "lineup_has_duplicate_players"
	ViolationLineupNotInSquad       Violation = "lineup_players_not_in_squad"
	ViolationStartersNeedGoalkeeper Violation = "lineup_starters_need_goalkeeper"
	ViolationStartersMaxGoalkeeper  Violation = "lineup_starters_max_1_goalkeeper"
	ViolationStartersNeedDefender   Violation = "lineup_starters_need_defender"
	ViolationStartersNeedMidfielder Violation = "lineup_starters_need_midfielder"
	ViolationStartersNeedForward    Violation = "lineup_starters_need_forward"
	ViolationStartersMaxForwards    Violation = "lineup_starters_max_4_forwards"
	ViolationCaptainNotStarter      Violation = "captain_not_in_starting_xi"
	ViolationViceCaptainNotStarter  Violation = "vice_captain_not_in_starting_xi"
	ViolationCaptainSameAsVice      Violation = "captain_and_vice_same_player"
	ViolationRoundClosed            Violation = "round_closed"
	ViolationOutPlayerNotInSquad    Violation = "out_player_not_in_squad"
	ViolationInPlayerAlreadyInSquad Violation = "in_player_already_in_squad"
	ViolationTransferSamePlayer     Violation = "transfer_same_player"
)

func (v Violation) String() string {
	return string(v)
}

// Codes converts violations to their wire strings.
func Codes(violations []Violation) []string {
	out := make([]string, 0, len(violations))
	for _, v := range violations {
		out = append(out, string(v))
	}
	return out
}

// Contains reports whether target is present in violations.
func Contains(violations []Violation, target Violation) bool {
	for _, v := range violations {
		if v == target {
			return true
		}
	}
	return false
}
