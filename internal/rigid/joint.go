package rigid

import "math"

// Infinity is used for unbounded friction coefficients.
var Infinity = math.Inf(1)

// ContactMode selects which SurfaceParams fields are honoured.
type ContactMode uint32

const (
	ContactMu2 ContactMode = 1 << iota
	ContactBounce
	ContactSoftERP
	ContactSoftCFM
	ContactSlip1
	ContactSlip2
	ContactApprox1_1
	ContactApprox1_2

	// ContactApprox1 bounds both friction directions by mu times the normal force.
	ContactApprox1 = ContactApprox1_1 | ContactApprox1_2
)

// SurfaceParams describes the contact response between two surfaces.
type SurfaceParams struct {
	Mode      ContactMode
	Mu        float64
	Mu2       float64
	Bounce    float64
	BounceVel float64
	SoftERP   float64
	SoftCFM   float64
	Slip1     float64
	Slip2     float64
}

// Contact pairs a contact point with its surface response.
type Contact struct {
	Surface SurfaceParams
	Geom    ContactGeom
}

// ContactJoint constrains two bodies at one contact point.
type ContactJoint struct {
	contact Contact
	b1, b2  *Body
	group   *JointGroup
	live    bool
}

// NewContactJoint creates a contact joint owned by g. Joints created on a
// destroyed world never take part in a step.
func (w *World) NewContactJoint(g *JointGroup, c Contact) *ContactJoint {
	j := &ContactJoint{contact: c, group: g, live: !w.destroyed}
	if g != nil {
		g.joints = append(g.joints, j)
	}
	if j.live {
		w.joints = append(w.joints, j)
	}
	return j
}

// Attach connects the joint to two bodies. Either may be nil for the static
// environment.
func (j *ContactJoint) Attach(b1, b2 *Body) {
	j.b1, j.b2 = b1, b2
}

func (j *ContactJoint) Bodies() (*Body, *Body) { return j.b1, j.b2 }
func (j *ContactJoint) Contact() Contact       { return j.contact }
func (j *ContactJoint) Live() bool             { return j.live }

// JointGroup collects contact joints so they can be discarded together.
type JointGroup struct {
	joints []*ContactJoint
}

func NewJointGroup() *JointGroup {
	return &JointGroup{joints: make([]*ContactJoint, 0, 8)}
}

func (g *JointGroup) Len() int { return len(g.joints) }

// Empty destroys every joint in the group.
func (g *JointGroup) Empty() {
	for i, j := range g.joints {
		j.live = false
		j.group = nil
		g.joints[i] = nil
	}
	g.joints = g.joints[:0]
}

func (g *JointGroup) Destroy() {
	g.Empty()
	g.joints = nil
}
