package sim

import "github.com/san-kum/dropsim/internal/rigid"

// CollisionData is the context handed to the collision callback.
type CollisionData struct {
	World       *rigid.World
	Contacts    *rigid.JointGroup
	MaxContacts int
	Surface     rigid.SurfaceParams
}

// HandleCollision is a rigid.NearCallback. It creates one contact joint per
// contact point between g1 and g2, all sharing the same surface.
func (c *CollisionData) HandleCollision(g1, g2 *rigid.Geom) {
	for _, cg := range rigid.Collide(g1, g2, c.MaxContacts) {
		j := c.World.NewContactJoint(c.Contacts, rigid.Contact{Surface: c.Surface, Geom: cg})
		j.Attach(g1.Body(), g2.Body())
	}
}
