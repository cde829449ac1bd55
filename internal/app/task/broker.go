/*
 * @Description: 后台任务调度器 (死链巡检)
 */
package task

import (
	"context"
	"log"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/qingmu-w/linkhub-app/internal/infra/persistence"
)

const sweepTimeout = 10 * time.Second

// Broker 负责派发和调度后台任务。当前只有一类任务：死链巡检，
// 对存储里的每条链接做一次 HEAD 探测，把打不开的记录到日志里
// 供管理员处理。巡检既按 cron 周期跑，也会在链接发生变更后被
// 异步派发一次，API 无需等待。
type Broker struct {
	provider *persistence.Provider
	cron     *cron.Cron
	client   *http.Client

	sweeping atomic.Bool
}

// NewBroker 构造调度器。
func NewBroker(provider *persistence.Provider) *Broker {
	return &Broker{
		provider: provider,
		cron:     cron.New(),
		client:   &http.Client{Timeout: sweepTimeout},
	}
}

// RegisterCronJobs 注册周期任务。cronSpec 为空时默认每天跑一次。
func (b *Broker) RegisterCronJobs(cronSpec string) {
	if cronSpec == "" {
		cronSpec = "@daily"
	}
	if _, err := b.cron.AddFunc(cronSpec, func() {
		b.runSweep()
	}); err != nil {
		log.Printf("⚠️ 注册死链巡检任务失败 (spec: %s): %v", cronSpec, err)
		return
	}
	log.Printf("已注册死链巡检任务 (spec: %s)。", cronSpec)
}

// Start 启动调度器。
func (b *Broker) Start() {
	b.cron.Start()
}

// Stop 停止调度器，等待在跑的任务结束。
func (b *Broker) Stop() {
	ctx := b.cron.Stop()
	<-ctx.Done()
}

// DispatchLinkSweep 异步派发一次巡检，调用方不等待结果。
func (b *Broker) DispatchLinkSweep() {
	go b.runSweep()
}

// runSweep 执行一轮巡检；同一时刻只允许一轮在跑。
func (b *Broker) runSweep() {
	if !b.sweeping.CompareAndSwap(false, true) {
		return
	}
	defer b.sweeping.Store(false)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	store, err := b.provider.Store(ctx)
	if err != nil {
		log.Printf("⚠️ 死链巡检获取存储实例失败: %v", err)
		return
	}
	links, err := store.ListLinks(ctx)
	if err != nil {
		log.Printf("⚠️ 死链巡检读取链接列表失败: %v", err)
		return
	}

	dead := 0
	for _, l := range links {
		if !b.probe(ctx, l.URL) {
			dead++
			log.Printf("⚠️ 死链: %s (%s)", l.Title, l.URL)
		}
	}
	log.Printf("死链巡检完成: 共 %d 条链接，%d 条不可达。", len(links), dead)
}

// probe 对 URL 做一次 HEAD 请求，2xx/3xx 视为存活。
func (b *Broker) probe(ctx context.Context, url string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return false
	}
	resp, err := b.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode < http.StatusBadRequest
}
