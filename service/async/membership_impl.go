// Copyright (c) 2026 opcg-sim-backend Authors
// SPDX-License-Identifier: Apache-2.0

package async

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/memberlist"
	"go.uber.org/multierr"

	"github.com/gx5gyqe2-art/opcg-sim-backend/cluster"
	"github.com/gx5gyqe2-art/opcg-sim-backend/common/log"
	"github.com/gx5gyqe2-art/opcg-sim-backend/common/log/tag"
	"github.com/gx5gyqe2-art/opcg-sim-backend/config"
)

const (
	ServerTypeApi   = "api"
	ServerTypeAsync = "async"

	defaultLeaveTimeout = time.Second * 5
)

type membershipImpl struct {
	memberlistCfg *memberlist.Config
	delegate      *ClusterEventDelegate
	list          *memberlist.Memberlist

	serverType    string
	serverAddress string

	cfg    config.Config
	logger log.Logger
}

// NewMembershipImpl prepares a memberlist node of the given server type.
// svc is the async service to rebalance on ring changes; API servers pass
// nil and only observe the ring. Joining happens in Start, after the task
// processors are running, so that the first rebalance finds them ready.
func NewMembershipImpl(
	cfg config.Config, svc Service, serverType string, logger log.Logger,
) Membership {
	if cfg.Membership == nil {
		return nil
	}

	bindAddress := cfg.Membership.BindAddress
	advertiseAddress := cfg.Membership.AdvertiseAddress

	serverAddress := ""
	if serverType == ServerTypeApi {
		serverAddress = cfg.ApiService.HttpServer.Address
	}
	if serverType == ServerTypeAsync {
		serverAddress = cfg.AsyncService.InternalHttpServer.Address
	}
	if !strings.HasPrefix(serverAddress, "http") {
		serverAddress = "http://" + serverAddress
	}

	bindParts := strings.Split(bindAddress, ":")
	bindPort, err := strconv.Atoi(bindParts[len(bindParts)-1])
	if err != nil {
		logger.Fatal(fmt.Sprintf("fail to get port from bind address %s", bindAddress), tag.Error(err))
	}

	advertiseParts := strings.Split(advertiseAddress, ":")
	advertisePort, err := strconv.Atoi(advertiseParts[len(advertiseParts)-1])
	if err != nil {
		logger.Fatal(fmt.Sprintf("fail to get port from advertise address %s", advertiseAddress), tag.Error(err))
	}

	delegate := &ClusterEventDelegate{
		Logger:        logger,
		Shard:         cfg.Database.Shards,
		ServerAddress: serverAddress,
		AsyncService:  svc,
	}

	memberlistConf := memberlist.DefaultLocalConfig()
	memberlistConf.Name = serverType + "_" + advertiseAddress
	memberlistConf.BindAddr = bindParts[0]
	memberlistConf.BindPort = bindPort
	memberlistConf.AdvertiseAddr = advertiseParts[0]
	memberlistConf.AdvertisePort = advertisePort
	memberlistConf.Events = delegate
	memberlistConf.Delegate = &cluster.ClusterDelegate{
		Meta: cluster.ClusterDelegateMetaData{
			ServerType:    serverType,
			ServerAddress: serverAddress,
		},
	}

	return &membershipImpl{
		memberlistCfg: memberlistConf,
		delegate:      delegate,
		serverType:    serverType,
		serverAddress: serverAddress,
		cfg:           cfg,
		logger:        logger,
	}
}

func (m *membershipImpl) Start() error {
	list, err := memberlist.Create(m.memberlistCfg)
	if err != nil {
		return fmt.Errorf("fail to create memberlist node: %w", err)
	}
	m.list = list

	advertiseAddressToJoin := m.cfg.Membership.AdvertiseAddressToJoin
	if advertiseAddressToJoin != "" {
		_, err = list.Join([]string{advertiseAddressToJoin})
		if err != nil {
			return fmt.Errorf("fail to join %s from %s: %w",
				advertiseAddressToJoin, m.cfg.Membership.AdvertiseAddress, err)
		}
	}
	return nil
}

func (m *membershipImpl) GetServerAddress() string {
	return m.serverAddress
}

func (m *membershipImpl) GetAsyncServerAddressForShard(shardId int32) string {
	return m.delegate.GetAsyncServerAddressFor(shardId)
}

func (m *membershipImpl) Stop(ctx context.Context) error {
	if m.list == nil {
		return nil
	}

	timeout := defaultLeaveTimeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
	}
	// Leave broadcasts the departure so the peers rebalance without
	// waiting for a failure detection timeout
	return multierr.Combine(
		m.list.Leave(timeout),
		m.list.Shutdown(),
	)
}
