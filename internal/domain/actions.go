package domain

import "strings"

type Permission string

const (
	PermView   Permission = "view"
	PermAdd    Permission = "add"
	PermChange Permission = "change"
	PermDelete Permission = "delete"
)

// RulesetSalesOrder guards every event and rental endpoint.
const RulesetSalesOrder = "sales_order"

// Roles holds "<ruleset>.<permission>" grants, e.g. "sales_order.change".
type Roles struct {
	Superuser bool
	grants    map[string]bool
}

func NewRoles(grants []string, superuser bool) Roles {
	r := Roles{Superuser: superuser, grants: make(map[string]bool, len(grants))}
	for _, g := range grants {
		r.grants[strings.ToLower(strings.TrimSpace(g))] = true
	}
	return r
}

func (r Roles) Has(ruleset string, perm Permission) bool {
	if r.Superuser {
		return true
	}
	return r.grants[ruleset+"."+string(perm)]
}

type Action string

const (
	ActionMarkInUse    Action = "mark_in_use"
	ActionMarkReturned Action = "mark_returned"
	ActionEdit         Action = "edit"
	ActionDelete       Action = "delete"
	ActionMarkActive   Action = "mark_active"
	ActionExtend       Action = "extend"
	ActionCancel       Action = "cancel"
	ActionAddNote      Action = "add_note"
)

// AssignmentActions lists the row actions offered for an assignment. A mark
// action is hidden only when the row is already in its target status.
func AssignmentActions(a FurnitureAssignment, roles Roles) []Action {
	var out []Action
	canChange := roles.Has(RulesetSalesOrder, PermChange)

	if canChange && a.Status != AssignmentStatusInUse {
		out = append(out, ActionMarkInUse)
	}
	if canChange && a.Status != AssignmentStatusReturned {
		out = append(out, ActionMarkReturned)
	}
	if canChange {
		out = append(out, ActionEdit)
	}
	if roles.Has(RulesetSalesOrder, PermDelete) {
		out = append(out, ActionDelete)
	}
	return out
}

// RentalOrderActions lists the actions offered on a rental order page.
func RentalOrderActions(o RentalOrder, roles Roles) []Action {
	if !roles.Has(RulesetSalesOrder, PermChange) {
		return nil
	}

	out := []Action{ActionEdit}
	if RentalOrderStatuses.CanTransition(o.Status, RentalOrderStatusActive) {
		out = append(out, ActionMarkActive)
	}
	if RentalOrderStatuses.CanTransition(o.Status, RentalOrderStatusReturned) {
		out = append(out, ActionMarkReturned)
	}
	if o.Status.Open() {
		out = append(out, ActionExtend)
	}
	if RentalOrderStatuses.CanTransition(o.Status, RentalOrderStatusCancelled) {
		out = append(out, ActionCancel)
	}
	return append(out, ActionAddNote)
}

func HasAction(actions []Action, want Action) bool {
	for _, a := range actions {
		if a == want {
			return true
		}
	}
	return false
}
