// Package router wires the forum HTTP API.
//
//	@title						Derdine Forum API
//	@version					1.0
//	@description				Community forum backend: users, categories, threads, replies, likes, theme, labels and per-screen UI config.
//	@description				Responses use the envelope {success, data, message, count, total, page, pages, token, error}.
//
//	@host						localhost:3000
//	@BasePath					/
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token from /api/users/login
//
//	@securityDefinitions.apikey	AdminToken
//	@in							header
//	@name						x-admin-token
//
//	@tag.name					users
//	@tag.description			Accounts, login and avatars.
//
//	@tag.name					threads
//	@tag.description			Discussion threads. Listing is pinned first, newest first.
//
//	@tag.name					replies
//	@tag.description			Replies to threads, oldest first.
//
//	@tag.name					categories
//	@tag.description			Thread categories.
//
//	@tag.name					theme
//	@tag.name					labels
//	@tag.name					config
//	@tag.name					admin
//	@tag.name					events
package router
