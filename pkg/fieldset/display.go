package fieldset

// evaluateDisplay combines the display rule sets of one field.
//
// Visibility starts true; a show set replaces it with the AND of its rules and a
// hide set that holds forces it false, whatever show said. Disabled starts false;
// an enable set makes it the negated AND of its rules and a disable set that holds
// forces it true.
func evaluateDisplay(conds DisplayConditions, check func(Rule) bool) (visible, disabled bool) {
	visible = true
	if len(conds.Show) > 0 {
		visible = allHold(conds.Show, check)
	}
	if len(conds.Hide) > 0 && allHold(conds.Hide, check) {
		visible = false
	}

	if len(conds.Enable) > 0 {
		disabled = !allHold(conds.Enable, check)
	}
	if len(conds.Disable) > 0 && allHold(conds.Disable, check) {
		disabled = true
	}
	return visible, disabled
}

// allHold returns true if every rule holds. Short-circuits on the first failure.
func allHold(rules []Rule, check func(Rule) bool) bool {
	for _, rule := range rules {
		if !check(rule) {
			return false
		}
	}
	return true
}
