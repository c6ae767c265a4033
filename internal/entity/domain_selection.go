package entity

// DomainOption is one entry of the domain filter control.
type DomainOption struct {
	ID    string
	Value string
	Href  string
}

// DomainSelection is the state of the domain filter control for one page.
type DomainSelection struct {
	Items       []DomainOption
	Selected    DomainOption
	Placeholder string
	ClearHref   string
}
