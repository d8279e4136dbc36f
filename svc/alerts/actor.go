package alerts

import "context"

// DefaultPrivilegedRole is the only role allowed to originate notifications
// unless a RoleGate is configured with another one.
const DefaultPrivilegedRole = "SUPER_ADMIN"

// Actor identifies who (or what) triggered an event.
type Actor struct {
	Role string `json:"role"`
	ID   string `json:"id"`
}

// System returns an actor for scheduled jobs and monitors that run with the
// privileged role.
func System(role string) Actor {
	if role == "" {
		role = DefaultPrivilegedRole
	}
	return Actor{Role: role, ID: "system"}
}

type actorCtxKey struct{}

// WithActor stores the actor in the context.
func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorCtxKey{}, actor)
}

// ActorFromContext retrieves the actor stored by WithActor.
func ActorFromContext(ctx context.Context) (Actor, bool) {
	actor, ok := ctx.Value(actorCtxKey{}).(Actor)
	return actor, ok
}

// IdentityProvider resolves the actor of the current execution context.
type IdentityProvider interface {
	Current(ctx context.Context) (Actor, error)
}

// ContextIdentity is an IdentityProvider backed by WithActor.
type ContextIdentity struct{}

func (ContextIdentity) Current(ctx context.Context) (Actor, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok {
		return Actor{}, ErrActorNotInContext
	}
	return actor, nil
}
