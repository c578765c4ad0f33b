package broadcast

import (
	"dispatch/internal/core/ports"
)

// CanSubscribe decides whether a verified identity may attach to a topic.
// Admins see everything; a partner is scoped to their own topic; a customer
// follows the single order their credential names.
func CanSubscribe(identity ports.Identity, topic string) bool {
	switch identity.Role {
	case ports.RoleAdmin:
		return true
	case ports.RolePartner:
		return topic == ports.PartnerTopic(identity.SubjectID.String())
	case ports.RoleCustomer:
		return topic == ports.OrderTopic(identity.SubjectID.String())
	default:
		return false
	}
}

// TopicFor returns the topic an identity is scoped to by default: the admin
// firehose for admins, the partner's own topic for partners, and the order
// topic for customers.
func TopicFor(identity ports.Identity) string {
	switch identity.Role {
	case ports.RolePartner:
		return ports.PartnerTopic(identity.SubjectID.String())
	case ports.RoleCustomer:
		return ports.OrderTopic(identity.SubjectID.String())
	default:
		return ports.TopicAdmin
	}
}
