// Package chatd wires the Chat Orchestrator and its dependencies into a
// runnable service, following the app/options split this codebase's other
// services use to separate wiring from configuration.
package chatd

import (
	"fmt"

	"github.com/spf13/pflag"

	jwtopts "github.com/kart-io/sentinel-x/pkg/options/jwt"
	llmopts "github.com/kart-io/sentinel-x/pkg/options/llm"
	milvusopts "github.com/kart-io/sentinel-x/pkg/options/milvus"
	mongoopts "github.com/kart-io/sentinel-x/pkg/options/mongodb"
	pgopts "github.com/kart-io/sentinel-x/pkg/options/postgres"
	redisopts "github.com/kart-io/sentinel-x/pkg/options/redis"
)

// Options aggregates every sub-component's configuration, following this
// codebase's one-Options-struct-per-concern pattern (pkg/options/*).
type Options struct {
	HTTPAddr string `json:"http-addr" mapstructure:"http-addr"`

	Persona        string `json:"persona" mapstructure:"persona"`
	SystemUserID   string `json:"system-user-id" mapstructure:"system-user-id"`
	RouteLockTurns int    `json:"route-lock-turns" mapstructure:"route-lock-turns"`

	// SingleReplica selects the in-process Buffer/Session Manager
	// implementations over the Redis-backed ones.
	SingleReplica bool `json:"single-replica" mapstructure:"single-replica"`

	Postgres  *pgopts.Options      `json:"postgres" mapstructure:"postgres"`
	Redis     *redisopts.Options   `json:"redis" mapstructure:"redis"`
	Milvus    *milvusopts.Options  `json:"milvus" mapstructure:"milvus"`
	Mongo     *mongoopts.Options   `json:"mongo" mapstructure:"mongo"`
	Embedding *llmopts.ProviderOptions `json:"embedding" mapstructure:"embedding"`
	Chat      *llmopts.ProviderOptions `json:"chat" mapstructure:"chat"`
	JWT       *jwtopts.Options     `json:"jwt" mapstructure:"jwt"`
}

// NewOptions builds an Options with every sub-component defaulted.
func NewOptions() *Options {
	return &Options{
		HTTPAddr:       ":8090",
		Persona:        "default",
		SystemUserID:   "__system__",
		RouteLockTurns: 5,
		SingleReplica:  false,
		Postgres:       pgopts.NewOptions(),
		Redis:          redisopts.NewOptions(),
		Milvus:         milvusopts.NewOptions(),
		Mongo:          mongoopts.NewOptions(),
		Embedding:      llmopts.NewEmbeddingOptions(),
		Chat:           llmopts.NewChatOptions(),
		JWT:            jwtopts.NewOptions(),
	}
}

// AddFlags registers every sub-component's flags under its own prefix.
func (o *Options) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.HTTPAddr, "http-addr", o.HTTPAddr, "HTTP listen address.")
	fs.StringVar(&o.Persona, "persona", o.Persona, "Default assistant persona name.")
	fs.StringVar(&o.SystemUserID, "system-user-id", o.SystemUserID, "External ID of the distinguished system user that owns global personality profiles.")
	fs.IntVar(&o.RouteLockTurns, "route-lock-turns", o.RouteLockTurns, "Number of turns a classified EXPLICIT/FETISH route stays locked.")
	fs.BoolVar(&o.SingleReplica, "single-replica", o.SingleReplica, "Use in-process Buffer/Session Manager implementations instead of Redis-backed ones.")

	o.Postgres.AddFlags(fs)
	o.Redis.AddFlags(fs)
	o.Milvus.AddFlags(fs)
	o.Mongo.AddFlags(fs, "")
	o.Embedding.AddFlags(fs, "embedding.")
	o.Chat.AddFlags(fs, "chat.")
	o.JWT.AddFlags(fs)
}

// Complete fills in defaults that depend on other fields being set first.
func (o *Options) Complete() error {
	if err := o.Postgres.Complete(); err != nil {
		return fmt.Errorf("complete postgres options: %w", err)
	}
	if err := o.Redis.Complete(); err != nil {
		return fmt.Errorf("complete redis options: %w", err)
	}
	if err := o.Mongo.Complete(); err != nil {
		return fmt.Errorf("complete mongo options: %w", err)
	}
	if err := o.Embedding.Complete(); err != nil {
		return fmt.Errorf("complete embedding options: %w", err)
	}
	if err := o.Chat.Complete(); err != nil {
		return fmt.Errorf("complete chat options: %w", err)
	}
	return o.JWT.Complete()
}

// Validate aggregates every sub-component's validation errors.
func (o *Options) Validate() error {
	var errs []error
	errs = append(errs, o.Postgres.Validate()...)
	errs = append(errs, o.Redis.Validate()...)
	errs = append(errs, o.Milvus.Validate()...)
	errs = append(errs, o.Mongo.Validate()...)
	errs = append(errs, o.Embedding.Validate()...)
	errs = append(errs, o.Chat.Validate()...)
	if err := o.JWT.Validate(); err != nil {
		errs = append(errs, err)
	}
	if o.RouteLockTurns <= 0 {
		errs = append(errs, fmt.Errorf("route-lock-turns must be positive"))
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("invalid chatd options: %v", errs)
}
