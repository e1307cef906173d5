package collector

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/client"
)

// ContainerLookup returns the main process id of every running container,
// mapped to the container name.
type ContainerLookup interface {
	ContainerPIDs(ctx context.Context) (map[int32]string, error)
}

// DockerContainers asks the local Docker daemon
type DockerContainers struct{}

func (DockerContainers) ContainerPIDs(ctx context.Context) (map[int32]string, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("docker client: %w", err)
	}
	defer cli.Close()

	containers, err := cli.ContainerList(ctx, container.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("container list: %w", err)
	}

	pids := make(map[int32]string, len(containers))
	for _, c := range containers {
		info, err := cli.ContainerInspect(ctx, c.ID)
		if err != nil {
			log.Printf("Container inspect %s failed: %v", shortID(c.ID), err)
			continue
		}
		if info.ContainerJSONBase == nil || info.State == nil || info.State.Pid == 0 {
			continue
		}
		pids[int32(info.State.Pid)] = containerName(c.Names, c.ID)
	}
	return pids, nil
}

func containerName(names []string, id string) string {
	if len(names) > 0 {
		return strings.TrimPrefix(names[0], "/")
	}
	return shortID(id)
}

func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}
