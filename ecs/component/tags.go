package component

type PlayerTag struct{}

var PlayerTagComponent = NewComponent[PlayerTag]()

// SkyAnchorTag marks a point the player recharges near.
type SkyAnchorTag struct{}

var SkyAnchorTagComponent = NewComponent[SkyAnchorTag]()
