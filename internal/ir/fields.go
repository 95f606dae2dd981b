package ir

// Well-known logical field names. Control fields and the two flow/
// linkpoint addressing fields use fixed names; data/header fields are
// named after their role, disambiguated by Subtype when a component
// declares more than one bundle of the same role.
const (
	FieldValid      = "valid"
	FieldReady      = "ready"
	FieldSOP        = "sop"
	FieldEOP        = "eop"
	FieldLinkpoint  = "linkpoint_id"
	FieldFlowID     = "flow_id"
)

// FieldName derives the logical field name for a Signal.
func FieldName(sig Signal) string {
	switch sig.Role {
	case RoleValid:
		return FieldValid
	case RoleReady:
		return FieldReady
	case RoleSOP:
		return FieldSOP
	case RoleEOP:
		return FieldEOP
	case RoleLinkpointID:
		return FieldLinkpoint
	case RoleLinkID:
		return FieldFlowID
	case RoleData:
		if sig.Subtype == "" {
			return "data"
		}
		return "data_" + sig.Subtype
	case RoleHeader:
		if sig.Subtype == "" {
			return "header"
		}
		return "header_" + sig.Subtype
	default:
		return sig.Role.String()
	}
}
