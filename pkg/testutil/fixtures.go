package testutil

// AlpineDescriptor is a root template mirroring a typical base image
const AlpineDescriptor = `
name: alpine
version: 1.2.0
description: Minimal Alpine base
category: base
tags: [alpine, minimal]
parameters:
  alpine_version:
    type: string
    default: "3.19"
    pattern: '\d+\.\d+'
  user_uid:
    type: integer
    default: 1000
    min: 1000
    max: 65535
  packages:
    type: array
    default: [curl, wget, ca-certificates]
  enable_healthcheck:
    type: boolean
    default: true
files:
  dockerfile: Dockerfile
  scripts:
    - entrypoint.sh
testing:
  health_check: "true"
  test_commands:
    - "echo ok"
registry:
  namespace: acme
`

// AlpineDockerfile exercises scalars, arrays and conditionals
const AlpineDockerfile = `FROM alpine:{{ .alpine_version }}
RUN apk add --no-cache {{ join " " .packages }}
RUN adduser -D -u {{ .user_uid }} app
{{- if .enable_healthcheck }}
HEALTHCHECK CMD /entrypoint.sh health
{{- end }}
`

// AlpineEntrypoint is a plain script body
const AlpineEntrypoint = "#!/bin/sh\nexec \"$@\"\n"

// ExpressDescriptor inherits AlpineDescriptor and overrides packages
const ExpressDescriptor = `
name: express
version: 2.0.0-rc.1
description: Express.js service
category: app
inherits: base/alpine
parameters:
  packages:
    type: array
    default: [helmet, cors]
  app_port:
    type: integer
    default: 3000
    min: 1000
    max: 65535
  node_env:
    type: string
    default: production
    enum: [development, production]
  app_name:
    type: string
    required: true
    pattern: '[a-z][a-z0-9-]*'
files:
  dockerfile: Dockerfile
  config:
    - config/app.json
registry:
  namespace: acme
  repository: node-express
  tags: [stable]
`

// ExpressDockerfile overrides the base Dockerfile
const ExpressDockerfile = `FROM node:20-alpine
ENV NODE_ENV={{ .node_env }}
# middleware: {{ .packages }}
{{- range .packages }}
RUN npm install {{ . }}
{{- end }}
EXPOSE {{ .app_port }}
LABEL org.opencontainers.image.title="{{ .app_name }}"
`

// ExpressConfig is a nested config body
const ExpressConfig = `{"name": "{{ .app_name }}", "port": {{ .app_port }}}
`

// StandardTree returns a tree with base/alpine and apps/nodejs/express
func StandardTree() *Tree {
	return NewTree().
		Template("base/alpine", AlpineDescriptor).
		Body("base/alpine", "Dockerfile", AlpineDockerfile).
		Body("base/alpine", "entrypoint.sh", AlpineEntrypoint).
		Template("apps/nodejs/express", ExpressDescriptor).
		Body("apps/nodejs/express", "Dockerfile", ExpressDockerfile).
		Body("apps/nodejs/express", "config/app.json", ExpressConfig)
}
