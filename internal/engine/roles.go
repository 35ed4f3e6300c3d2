package engine

import (
	"slices"
	"strings"

	"github.com/noah-isme/gema-mentorship/internal/apperror"
)

// Role is the caller's already-validated programme role.
type Role string

const (
	RoleStudent     Role = "student"
	RoleMentor      Role = "mentor"
	RoleCoordinator Role = "coordinator"
)

// ParseRole normalises a role claim.
func ParseRole(value string) (Role, error) {
	switch role := Role(strings.ToLower(strings.TrimSpace(value))); role {
	case RoleStudent, RoleMentor, RoleCoordinator:
		return role, nil
	default:
		return "", apperror.ErrForbiddenRole.Withf("unknown role %q", value)
	}
}

// Actor identifies the caller. For students ID is the student id.
type Actor struct {
	ID   string
	Role Role
}

// Operation names a facade call.
type Operation string

const (
	OpApply            Operation = "apply"
	OpDecide           Operation = "decide"
	OpAssignProject    Operation = "assign_project"
	OpAssignMentor     Operation = "assign_mentor"
	OpUnassignMentor   Operation = "unassign_mentor"
	OpSubmit           Operation = "submit"
	OpReview           Operation = "review"
	OpTakeTest         Operation = "take_test"
	OpCreateProject    Operation = "create_project"
	OpUpdateProject    Operation = "update_project"
	OpDeleteProject    Operation = "delete_project"
	OpCompleteProject  Operation = "complete_project"
	OpRegisterStudent  Operation = "register_student"
	OpListProjects     Operation = "list_projects"
	OpListApplications Operation = "list_applications"
	OpListSubmissions  Operation = "list_submissions"
	OpListStudents     Operation = "list_students"
	OpListTests        Operation = "list_tests"
	OpListTestResults  Operation = "list_test_results"
	OpTestSummary      Operation = "test_summary"
	OpOverview         Operation = "overview"
	OpRecentActivity   Operation = "recent_activity"
)

var (
	studentsOnly   = []Role{RoleStudent}
	reviewers      = []Role{RoleMentor, RoleCoordinator}
	coordinators   = []Role{RoleCoordinator}
	everyone       = []Role{RoleStudent, RoleMentor, RoleCoordinator}
	capabilityList = map[Operation][]Role{
		OpApply:            studentsOnly,
		OpSubmit:           studentsOnly,
		OpTakeTest:         studentsOnly,
		OpDecide:           reviewers,
		OpReview:           reviewers,
		OpRecentActivity:   reviewers,
		OpAssignProject:    coordinators,
		OpAssignMentor:     coordinators,
		OpUnassignMentor:   coordinators,
		OpCreateProject:    coordinators,
		OpUpdateProject:    coordinators,
		OpDeleteProject:    coordinators,
		OpCompleteProject:  coordinators,
		OpRegisterStudent:  coordinators,
		OpListProjects:     everyone,
		OpListApplications: everyone,
		OpListSubmissions:  everyone,
		OpListStudents:     everyone,
		OpListTests:        everyone,
		OpListTestResults:  everyone,
		OpTestSummary:      everyone,
		OpOverview:         everyone,
	}
)

// Allowed reports whether role may invoke op.
func Allowed(role Role, op Operation) bool {
	return slices.Contains(capabilityList[op], role)
}

// Operations lists what role may invoke, for presentation layers that hide unavailable actions.
func Operations(role Role) []Operation {
	var ops []Operation
	for _, op := range allOperations {
		if Allowed(role, op) {
			ops = append(ops, op)
		}
	}
	return ops
}

var allOperations = []Operation{
	OpApply, OpDecide, OpAssignProject, OpAssignMentor, OpUnassignMentor, OpSubmit, OpReview,
	OpTakeTest, OpCreateProject, OpUpdateProject, OpDeleteProject, OpCompleteProject,
	OpRegisterStudent, OpListProjects, OpListApplications, OpListSubmissions, OpListStudents,
	OpListTests, OpListTestResults, OpTestSummary, OpOverview, OpRecentActivity,
}

func authorize(actor Actor, op Operation) error {
	if !Allowed(actor.Role, op) {
		return apperror.ErrForbiddenRole.Withf("%s may not %s", roleLabel(actor.Role), op)
	}
	if actor.Role == RoleStudent && strings.TrimSpace(actor.ID) == "" {
		return apperror.ErrForbiddenRole.Withf("student caller has no id")
	}
	return nil
}

// scopeStudent resolves the student a call acts on. Students may only act on themselves.
func scopeStudent(actor Actor, studentID string) (string, error) {
	studentID = strings.TrimSpace(studentID)
	if actor.Role != RoleStudent {
		return studentID, nil
	}
	if studentID == "" {
		return actor.ID, nil
	}
	if studentID != actor.ID {
		return "", apperror.ErrForbiddenRole.Withf("student %s may not act for %s", actor.ID, studentID)
	}
	return studentID, nil
}

func roleLabel(role Role) string {
	if role == "" {
		return "anonymous caller"
	}
	return string(role)
}
