// Copyright (c) 2026 opcg-sim-backend Authors
// SPDX-License-Identifier: Apache-2.0

package cluster

import (
	"encoding/json"
)

// ClusterDelegate broadcasts the identity of this server to the other
// memberlist nodes. Only the metadata hook is used.
type ClusterDelegate struct {
	Meta ClusterDelegateMetaData
}

func (d *ClusterDelegate) NodeMeta(limit int) []byte {
	return d.Meta.Bytes()
}
func (d *ClusterDelegate) LocalState(join bool) []byte {
	// not use, noop
	return []byte("")
}
func (d *ClusterDelegate) NotifyMsg(msg []byte) {
	// not use
}
func (d *ClusterDelegate) GetBroadcasts(overhead, limit int) [][]byte {
	// not use, noop
	return nil
}
func (d *ClusterDelegate) MergeRemoteState(buf []byte, join bool) {
	// not use
}

// ClusterDelegateMetaData identifies a node in the cluster. ServerType tells
// shard assignment apart from ring observers: only async servers own shards,
// API servers join the ring to route notifications.
type ClusterDelegateMetaData struct {
	ServerType    string
	ServerAddress string
}

func (m ClusterDelegateMetaData) Bytes() []byte {
	data, err := json.Marshal(m)
	if err != nil {
		return []byte("")
	}
	return data
}

func ParseClusterDelegateMetaData(data []byte) (ClusterDelegateMetaData, error) {
	meta := ClusterDelegateMetaData{}
	err := json.Unmarshal(data, &meta)
	if err != nil {
		return ClusterDelegateMetaData{}, err
	}
	return meta, nil
}
