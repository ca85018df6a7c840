package main

import (
	"github.com/Kotlang/sampledataGo/config"
	"github.com/Kotlang/sampledataGo/db"
	"github.com/Kotlang/sampledataGo/service"
)

type Inject struct {
	SampleDb *db.SampleDb

	StatsService   *service.StatsService
	AugmentService *service.AugmentService
	ReplyService   *service.ReplyService
}

func NewInject(cfg *config.Config) *Inject {
	inj := &Inject{}

	inj.SampleDb = db.NewSampleDb(cfg.DataDir)

	inj.StatsService = service.NewStatsService(inj.SampleDb)
	inj.AugmentService = service.NewAugmentService(inj.SampleDb, cfg.Plan.Augment, inj.StatsService)
	inj.ReplyService = service.NewReplyService(inj.SampleDb, cfg.Plan.Replies, inj.StatsService)
	return inj
}
