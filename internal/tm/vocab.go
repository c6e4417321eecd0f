package tm

// TMDM published subject identifiers.
const (
	PSIBase = "http://psi.topicmaps.org/iso13250/model/"

	PSITopicName        = PSIBase + "topic-name"
	PSITypeInstance     = PSIBase + "type-instance"
	PSIType             = PSIBase + "type"
	PSIInstance         = PSIBase + "instance"
	PSISupertypeSubtype = PSIBase + "supertype-subtype"
	PSISupertype        = PSIBase + "supertype"
	PSISubtype          = PSIBase + "subtype"
)

// XML Schema datatypes used for occurrence and variant values.
const (
	XSDBase = "http://www.w3.org/2001/XMLSchema#"

	XSDString = XSDBase + "string"
	XSDAnyURI = XSDBase + "anyURI"
)
