package hydrator_test

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/jacentio/hydrator/collection"
	"github.com/jacentio/hydrator/filter"
	"github.com/jacentio/hydrator/hydrator"
	"github.com/jacentio/hydrator/metadata"
	"github.com/jacentio/hydrator/store"
	"github.com/jacentio/hydrator/store/memstore"
)

// --- Test Domain Types ---

type Address struct {
	Street string
	City   string
}

// Person has accessors with side effects: names are stored lower case and
// read back upper case.
type Person struct {
	id       int
	name     string
	nickName string
	born     *time.Time
	home     Address
	friend   *Person
	company  Company
	tags     *collection.ArrayCollection[*Tag]
}

func NewPerson() *Person {
	return &Person{tags: collection.New[*Tag]()}
}

func (p *Person) GetID() int                                 { return p.id }
func (p *Person) SetID(id int)                               { p.id = id }
func (p *Person) GetName() string                            { return strings.ToUpper(p.name) }
func (p *Person) SetName(name string)                        { p.name = strings.ToLower(name) }
func (p *Person) GetNickName() string                        { return p.nickName }
func (p *Person) SetNickName(n string)                       { p.nickName = n }
func (p *Person) GetBorn() *time.Time                        { return p.born }
func (p *Person) SetBorn(t *time.Time)                       { p.born = t }
func (p *Person) GetHome() Address                           { return p.home }
func (p *Person) SetHome(a Address)                          { p.home = a }
func (p *Person) GetFriend() *Person                         { return p.friend }
func (p *Person) SetFriend(f *Person)                        { p.friend = f }
func (p *Person) GetCompany() Company                        { return p.company }
func (p *Person) SetCompany(c Company)                       { p.company = c }
func (p *Person) GetTags() *collection.ArrayCollection[*Tag] { return p.tags }
func (p *Person) AddTag(t *Tag)                              { p.tags.Add(t) }
func (p *Person) RemoveTag(t *Tag)                           { p.tags.Remove(t) }

type Company struct {
	id   int
	name string
}

func (c *Company) GetID() int          { return c.id }
func (c *Company) SetID(id int)        { c.id = id }
func (c *Company) GetName() string     { return c.name }
func (c *Company) SetName(name string) { c.name = name }

type Tag struct {
	id   int
	name string
}

func (t *Tag) GetID() int          { return t.id }
func (t *Tag) SetID(id int)        { t.id = id }
func (t *Tag) GetName() string     { return t.name }
func (t *Tag) SetName(name string) { t.name = name }

// Account chooses its own extraction filter.
type Account struct {
	ID       int
	Email    string
	Password string
}

func (a *Account) GetID() int          { return a.ID }
func (a *Account) GetEmail() string    { return a.Email }
func (a *Account) GetPassword() string { return a.Password }

func (a *Account) Filter() filter.Filter { return filter.Exclude("password") }

// Ledger is immutable.
type Ledger struct {
	ID      int
	Balance int
}

func (l *Ledger) SetBalance(b int) { l.Balance = b }

// Membership has a composite identifier.
type Membership struct {
	Team string
	User string
	Role string
}

// Badge is identified by a multiword field.
type Badge struct {
	serialNo string
	label    string
}

type Locker struct {
	badge  *Badge
	badges *collection.ArrayCollection[*Badge]
}

// --- Fixtures ---

func registry() *metadata.Registry {
	return metadata.NewRegistry().MustRegister(
		metadata.Mapping{
			Type:       reflect.TypeOf(Person{}),
			Identifier: []string{"id"},
			Fields: []metadata.Field{
				{Name: "id"},
				{Name: "name"},
				{Name: "nickName"},
				{Name: "born", Nullable: true},
				{Name: "home", Kind: metadata.KindEmbedded},
				{Name: "friend", Kind: metadata.KindSingleAssociation, Target: reflect.TypeOf(Person{}), Nullable: true},
				{Name: "company", Kind: metadata.KindSingleAssociation, Target: reflect.TypeOf(Company{})},
				{Name: "tags", Kind: metadata.KindCollectionAssociation, Target: reflect.TypeOf(Tag{})},
			},
		},
		metadata.Mapping{
			Type:       reflect.TypeOf(Company{}),
			Identifier: []string{"id"},
			Fields:     []metadata.Field{{Name: "id"}, {Name: "name"}},
		},
		metadata.Mapping{
			Type:       reflect.TypeOf(Tag{}),
			Identifier: []string{"id"},
			Fields:     []metadata.Field{{Name: "id"}, {Name: "name"}},
		},
		metadata.Mapping{
			Type:       reflect.TypeOf(Account{}),
			Identifier: []string{"id"},
			Fields:     []metadata.Field{{Name: "id"}, {Name: "email"}, {Name: "password"}},
		},
		metadata.Mapping{
			Type:       reflect.TypeOf(Ledger{}),
			Identifier: []string{"id"},
			Fields:     []metadata.Field{{Name: "id"}, {Name: "balance"}},
			ReadOnly:   true,
		},
		metadata.Mapping{
			Type:       reflect.TypeOf(Membership{}),
			Identifier: []string{"team", "user"},
			Fields:     []metadata.Field{{Name: "team"}, {Name: "user"}, {Name: "role"}},
		},
		metadata.Mapping{
			Type:       reflect.TypeOf(Badge{}),
			Identifier: []string{"serialNo"},
			Fields:     []metadata.Field{{Name: "serialNo"}, {Name: "label"}},
		},
		metadata.Mapping{
			Type: reflect.TypeOf(Locker{}),
			Fields: []metadata.Field{
				{Name: "badge", Kind: metadata.KindSingleAssociation, Target: reflect.TypeOf(Badge{}), Nullable: true},
				{Name: "badges", Kind: metadata.KindCollectionAssociation, Target: reflect.TypeOf(Badge{})},
			},
		},
	)
}

func newHydrator(t *testing.T, s store.Finder, mutate ...func(*hydrator.Config)) *hydrator.Hydrator {
	t.Helper()
	if s == nil {
		s = memstore.New()
	}
	cfg := hydrator.DefaultConfig()
	for _, m := range mutate {
		m(&cfg)
	}
	return hydrator.New(registry(), s, cfg)
}

func byReference(cfg *hydrator.Config) { cfg.ByReference = true }

func tags(ts ...*Tag) []*Tag { return ts }
