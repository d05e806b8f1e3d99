package component

// Charge is the player's light reserve in [0, 1]. It fills near a light
// source and drains elsewhere; reaching zero is fatal.
type Charge struct {
	Level         float64
	ChargeRate    float64
	DischargeRate float64
	Depleted      bool

	OnDepleted func(c *Charge)
}

// NewCharge creates a full Charge with the given per-second rates.
func NewCharge(chargeRate, dischargeRate float64) *Charge {
	return &Charge{Level: 1, ChargeRate: chargeRate, DischargeRate: dischargeRate}
}

// Tick advances the charge by dt seconds. It reports true on the tick the
// charge runs out.
func (c *Charge) Tick(dt float64, lit bool) bool {
	if c == nil || c.Depleted || dt <= 0 {
		return false
	}
	if lit {
		c.Level += c.ChargeRate * dt
		if c.Level > 1 {
			c.Level = 1
		}
		return false
	}
	c.Level -= c.DischargeRate * dt
	if c.Level > 0 {
		return false
	}
	c.Level = 0
	c.Depleted = true
	if c.OnDepleted != nil {
		c.OnDepleted(c)
	}
	return true
}

// IsAlive reports whether the charge has not run out.
func (c *Charge) IsAlive() bool {
	return c != nil && !c.Depleted
}

// Reset refills the charge.
func (c *Charge) Reset() {
	if c == nil {
		return
	}
	c.Level = 1
	c.Depleted = false
}
