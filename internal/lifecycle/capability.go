package lifecycle

type Role string

const (
	RoleAdmin      Role = "admin"
	RoleSupervisor Role = "supervisor"
	RoleManager    Role = "manager"
	RoleWorker     Role = "worker"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleSupervisor, RoleManager, RoleWorker:
		return true
	}
	return false
}

type Capability string

const (
	CapCreateOrder    Capability = "order:create"
	CapAssignWorkers  Capability = "order:assign"
	CapAssignAreas    Capability = "order:assign_areas"
	CapEditOrder      Capability = "order:edit"
	CapCancelOrder    Capability = "order:cancel"
	CapViewAnyOrder   Capability = "order:view_any"
	CapStartWork      Capability = "order:start"
	CapCompleteArea   Capability = "order:complete_area"
	CapCompleteOrder  Capability = "order:complete"
	CapWriteReport    Capability = "report:write"
	CapDeleteReport   Capability = "report:delete"
	CapUploadPhoto    Capability = "photo:upload"
	CapDeleteAnyPhoto Capability = "photo:delete_any"
	CapRunJobs        Capability = "job:run"
)

var supervisorTier = []Role{RoleAdmin, RoleSupervisor, RoleManager}

var capabilities = map[Capability][]Role{
	CapCreateOrder:    supervisorTier,
	CapAssignWorkers:  supervisorTier,
	CapAssignAreas:    supervisorTier,
	CapEditOrder:      supervisorTier,
	CapCancelOrder:    supervisorTier,
	CapViewAnyOrder:   supervisorTier,
	CapDeleteReport:   supervisorTier,
	CapDeleteAnyPhoto: {RoleAdmin, RoleSupervisor},
	CapStartWork:      {RoleWorker},
	CapCompleteArea:   {RoleWorker},
	CapCompleteOrder:  {RoleWorker},
	CapWriteReport:    {RoleWorker},
	CapUploadPhoto:    {RoleWorker},
	CapRunJobs:        {RoleAdmin},
}

// Can reports whether role holds capability.
func Can(role Role, capability Capability) bool {
	for _, allowed := range capabilities[capability] {
		if allowed == role {
			return true
		}
	}
	return false
}

// Principal is the caller as resolved by the identity provider.
type Principal struct {
	ID   int64 `json:"id"`
	Role Role  `json:"role"`
}

func (p Principal) Can(capability Capability) bool {
	return Can(p.Role, capability)
}

// Require returns a Forbidden failure when p lacks capability.
func (p Principal) Require(capability Capability) error {
	if p.ID <= 0 || !p.Role.IsValid() {
		return Forbidden("unknown principal")
	}
	if !p.Can(capability) {
		return Forbidden("role %s lacks %s", p.Role, capability)
	}
	return nil
}
