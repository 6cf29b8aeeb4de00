package game

import "github.com/go-gl/mathgl/mgl64"

var (
	axisX = mgl64.Vec3{1, 0, 0}
	axisY = mgl64.Vec3{0, 1, 0}
)

// yawRotation ignores pitch so movement stays on the ground plane.
func (c *Character) yawRotation() mgl64.Mat3 {
	return mgl64.Rotate3DZ(mgl64.DegToRad(c.Yaw))
}

func (c *Character) Forward() mgl64.Vec3 {
	return c.yawRotation().Mul3x1(axisX)
}

func (c *Character) Right() mgl64.Vec3 {
	return c.yawRotation().Mul3x1(axisY)
}

// MoveForward queues movement along the facing direction.
func (c *Character) MoveForward(value float64) {
	if value == 0 {
		return
	}
	c.pending = c.pending.Add(c.Forward().Mul(value))
}

func (c *Character) MoveRight(value float64) {
	if value == 0 {
		return
	}
	c.pending = c.pending.Add(c.Right().Mul(value))
}

// TurnAtRate applies a normalized rate, where 1.0 is full BaseTurnRate.
func (c *Character) TurnAtRate(rate, dt float64) {
	c.Yaw += rate * c.BaseTurnRate * dt
}

func (c *Character) LookUpAtRate(rate, dt float64) {
	c.Pitch += rate * c.BaseLookUpRate * dt
}

func (c *Character) Jump() {
	c.Jumping = true
}

func (c *Character) StopJumping() {
	c.Jumping = false
}

// ConsumeMovement returns the queued input and clears it.
func (c *Character) ConsumeMovement() mgl64.Vec3 {
	v := c.pending
	c.pending = mgl64.Vec3{}
	return v
}

// Step consumes the queued input and moves the character by it.
func (c *Character) Step() mgl64.Vec3 {
	delta := c.ConsumeMovement()
	c.Location = c.Location.Add(delta)
	return c.Location
}
